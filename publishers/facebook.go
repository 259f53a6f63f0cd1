package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"

	"github.com/sirupsen/logrus"
)

type FacebookPublisher struct {
	client  *http.Client
	baseURL string
}

type FacebookPostResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type FacebookPageTokenResponse struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
}

// NewFacebookPublisher creates a FacebookPublisher against the given Graph
// base URL (e.g. https://graph.facebook.com/v21.0). A nil client gets a
// default with a sensible timeout.
func NewFacebookPublisher(baseURL string, client *http.Client) *FacebookPublisher {
	if client == nil {
		client = defaultClient()
	}
	return &FacebookPublisher{client: client, baseURL: baseURL}
}

func (f *FacebookPublisher) Publish(ctx context.Context, req models.PublishRequest, cred *models.PlatformCredentials) models.PublishResult {
	if cred == nil || !cred.Connected || cred.PageID == "" {
		return models.PublishResult{
			Platform: models.Facebook,
			Success:  false,
			Message:  "Missing Facebook credentials",
		}
	}

	token := f.resolvePageToken(ctx, cred)
	if token == "" {
		return models.PublishResult{
			Platform: models.Facebook,
			Success:  false,
			Message:  "No usable Facebook page token",
		}
	}

	var postID string
	var err error
	if req.ImageURL != "" {
		postID, err = f.publishPhoto(ctx, cred.PageID, token, req)
	} else {
		postID, err = f.publishFeed(ctx, cred.PageID, token, req)
	}

	if err != nil {
		return models.PublishResult{
			Platform: models.Facebook,
			Success:  false,
			Message:  fmt.Sprintf("Error publishing to Facebook: %v", err),
		}
	}

	return models.PublishResult{
		Platform: models.Facebook,
		Success:  true,
		Message:  "Published successfully on Facebook",
		PostID:   postID,
	}
}

// resolvePageToken prefers a page-scoped token freshly derived from the
// stored system token; if derivation fails for any reason it degrades to the
// stored page token without raising.
func (f *FacebookPublisher) resolvePageToken(ctx context.Context, cred *models.PlatformCredentials) string {
	if cred.SystemToken == "" {
		return cred.PageToken
	}

	url := fmt.Sprintf("%s/%s?fields=access_token&access_token=%s", f.baseURL, cred.PageID, cred.SystemToken)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cred.PageToken
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		logrus.WithField("page_id", cred.PageID).Debugf("Page token derivation failed: %v", err)
		return cred.PageToken
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logrus.WithField("page_id", cred.PageID).Debugf("Page token derivation rejected: %s", graphErrorMessage(body))
		return cred.PageToken
	}

	var tokenResp FacebookPageTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil || tokenResp.AccessToken == "" {
		return cred.PageToken
	}

	return tokenResp.AccessToken
}

func (f *FacebookPublisher) publishFeed(ctx context.Context, pageID, token string, req models.PublishRequest) (string, error) {
	url := fmt.Sprintf("%s/%s/feed", f.baseURL, pageID)

	payload := map[string]string{
		"message":      req.Message,
		"access_token": token,
	}

	body, status, err := postJSON(ctx, f.client, url, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Facebook API error: %s", graphErrorMessage(body))
	}

	var postResp FacebookPostResponse
	if err := json.Unmarshal(body, &postResp); err != nil {
		return "", err
	}

	return postResp.ID, nil
}

func (f *FacebookPublisher) publishPhoto(ctx context.Context, pageID, token string, req models.PublishRequest) (string, error) {
	url := fmt.Sprintf("%s/%s/photos", f.baseURL, pageID)

	payload := map[string]string{
		"url":          req.ImageURL,
		"caption":      req.Message,
		"access_token": token,
	}

	body, status, err := postJSON(ctx, f.client, url, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Facebook API error: %s", graphErrorMessage(body))
	}

	var photoResp FacebookPostResponse
	if err := json.Unmarshal(body, &photoResp); err != nil {
		return "", err
	}

	// Photo uploads report both the photo id and the resulting page post id.
	if photoResp.PostID != "" {
		return photoResp.PostID, nil
	}
	return photoResp.ID, nil
}
