package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

type InstagramPublisher struct {
	client      *http.Client
	baseURL     string
	settleDelay time.Duration
}

type InstagramMediaResponse struct {
	ID string `json:"id"`
}

// NewInstagramPublisher creates an InstagramPublisher. settleDelay is the
// pause between container creation and publish; Instagram needs a few
// seconds to process the container before it can be published.
func NewInstagramPublisher(baseURL string, client *http.Client, settleDelay time.Duration) *InstagramPublisher {
	if client == nil {
		client = defaultClient()
	}
	return &InstagramPublisher{client: client, baseURL: baseURL, settleDelay: settleDelay}
}

func (i *InstagramPublisher) Publish(ctx context.Context, req models.PublishRequest, cred *models.PlatformCredentials) models.PublishResult {
	if cred == nil || !cred.Connected || cred.InstagramID == "" {
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  "Missing Instagram credentials",
		}
	}

	if req.ImageURL == "" {
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  "Instagram requires an image",
		}
	}

	token := cred.PageToken
	if token == "" {
		token = cred.SystemToken
	}
	if token == "" {
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  "No usable Instagram token",
		}
	}

	containerID, err := i.createContainer(ctx, cred.InstagramID, token, req)
	if err != nil {
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  fmt.Sprintf("Error creating Instagram container: %v", err),
		}
	}

	// The container is not immediately publishable.
	select {
	case <-time.After(i.settleDelay):
	case <-ctx.Done():
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  fmt.Sprintf("Instagram publish cancelled: %v", ctx.Err()),
		}
	}

	mediaID, err := i.publishContainer(ctx, cred.InstagramID, token, containerID)
	if err != nil {
		return models.PublishResult{
			Platform: models.Instagram,
			Success:  false,
			Message:  fmt.Sprintf("Error publishing Instagram container: %v", err),
		}
	}

	return models.PublishResult{
		Platform: models.Instagram,
		Success:  true,
		Message:  "Published successfully on Instagram",
		PostID:   mediaID,
	}
}

func (i *InstagramPublisher) createContainer(ctx context.Context, igID, token string, req models.PublishRequest) (string, error) {
	url := fmt.Sprintf("%s/%s/media", i.baseURL, igID)

	payload := map[string]string{
		"image_url":    req.ImageURL,
		"caption":      req.Message,
		"access_token": token,
	}

	body, status, err := postJSON(ctx, i.client, url, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Instagram API error: %s", graphErrorMessage(body))
	}

	var mediaResp InstagramMediaResponse
	if err := json.Unmarshal(body, &mediaResp); err != nil {
		return "", err
	}
	if mediaResp.ID == "" {
		return "", fmt.Errorf("no container id returned from Instagram")
	}

	return mediaResp.ID, nil
}

func (i *InstagramPublisher) publishContainer(ctx context.Context, igID, token, containerID string) (string, error) {
	url := fmt.Sprintf("%s/%s/media_publish", i.baseURL, igID)

	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": token,
	}

	body, status, err := postJSON(ctx, i.client, url, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Instagram API error: %s", graphErrorMessage(body))
	}

	var mediaResp InstagramMediaResponse
	if err := json.Unmarshal(body, &mediaResp); err != nil {
		return "", err
	}

	return mediaResp.ID, nil
}
