package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// NewHTTPGenerator returns a ContentGenerator backed by an external
// generation endpoint. The endpoint receives {tenant_id, topic} and answers
// {title, body}; anything else is a generation failure for that tenant.
func NewHTTPGenerator(endpoint string, client *http.Client) ContentGenerator {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return func(ctx context.Context, tenantID, topic string) (string, string, error) {
		payload, err := json.Marshal(map[string]string{
			"tenant_id": tenantID,
			"topic":     topic,
		})
		if err != nil {
			return "", "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
		if err != nil {
			return "", "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return "", "", fmt.Errorf("generator request failed: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			return "", "", fmt.Errorf("generator returned status %d: %s", resp.StatusCode, body)
		}

		var result struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", "", fmt.Errorf("could not decode generator response: %w", err)
		}
		if result.Title == "" || result.Body == "" {
			return "", "", fmt.Errorf("generator returned an empty article")
		}

		return result.Title, result.Body, nil
	}
}

// NewTemplateGenerator returns a local fallback generator producing a short
// templated article from the topic, used when no external generation
// endpoint is configured.
func NewTemplateGenerator() ContentGenerator {
	return func(ctx context.Context, tenantID, topic string) (string, string, error) {
		title := titleFromTopic(topic)
		body := fmt.Sprintf(
			"%s\n\nAt %s, we get asked about this all the time. "+
				"Here is what our crews have learned on the job, and how to know "+
				"when it is time to bring in a professional.",
			title, tenantID,
		)
		return title, body, nil
	}
}

// titleFromTopic turns "cabinet refinishing: why it beats replacement" into
// "Why it beats replacement", preferring the part after the keyword colon.
func titleFromTopic(topic string) string {
	keyword, rest, found := strings.Cut(topic, ":")
	title := strings.TrimSpace(keyword)
	if found && strings.TrimSpace(rest) != "" {
		title = strings.TrimSpace(rest)
	}
	return capitalize(title)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
