package publishers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// PlatformPublisher performs one platform's publish protocol and normalizes
// the outcome. Implementations never return an error across this boundary:
// every failure mode, including transport errors, comes back as a
// PublishResult with Success=false.
type PlatformPublisher interface {
	Publish(ctx context.Context, req models.PublishRequest, cred *models.PlatformCredentials) models.PublishResult
}

// GraphErrorResponse is the error envelope shared by the Facebook and
// Instagram Graph APIs.
type GraphErrorResponse struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func defaultClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// postJSON posts a JSON payload and returns the response body and status.
// A transport error surfaces as err; non-2xx statuses do not.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) ([]byte, int, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode, nil
}

// graphErrorMessage extracts error.message from a Graph error body, falling
// back to the raw body when the envelope doesn't parse.
func graphErrorMessage(body []byte) string {
	var graphErr GraphErrorResponse
	if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error.Message != "" {
		return graphErr.Error.Message
	}
	return string(body)
}
