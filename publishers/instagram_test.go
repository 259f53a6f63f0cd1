package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func igCreds() *models.PlatformCredentials {
	return &models.PlatformCredentials{
		AccountID:   "darkwave",
		InstagramID: "ig-1",
		PageToken:   "page-token",
		Connected:   true,
	}
}

func TestInstagramTwoPhasePublish(t *testing.T) {
	t.Parallel()

	var phases []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodeBody(t, r)
		switch r.URL.Path {
		case "/ig-1/media":
			phases = append(phases, "container")
			assert.Equal(t, "https://cdn.example.com/job.jpg", payload["image_url"])
			assert.Equal(t, "Fresh coat", payload["caption"])
			assert.Equal(t, "page-token", payload["access_token"])
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case "/ig-1/media_publish":
			phases = append(phases, "publish")
			assert.Equal(t, "container-1", payload["creation_id"])
			json.NewEncoder(w).Encode(map[string]string{"id": "media-9"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	pub := NewInstagramPublisher(server.URL, server.Client(), 0)
	result := pub.Publish(context.Background(), models.PublishRequest{
		Message:  "Fresh coat",
		ImageURL: "https://cdn.example.com/job.jpg",
	}, igCreds())

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "media-9", result.PostID)
	assert.Equal(t, []string{"container", "publish"}, phases)
}

func TestInstagramRequiresImage(t *testing.T) {
	t.Parallel()

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	pub := NewInstagramPublisher(server.URL, server.Client(), 0)
	result := pub.Publish(context.Background(), models.PublishRequest{Message: "text only"}, igCreds())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "requires an image")
	assert.False(t, called, "no network call without an image")
}

func TestInstagramContainerFailureAbortsAttempt(t *testing.T) {
	t.Parallel()

	publishCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ig-1/media":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "media type unsupported"},
			})
		case "/ig-1/media_publish":
			publishCalled = true
		}
	}))
	defer server.Close()

	pub := NewInstagramPublisher(server.URL, server.Client(), 0)
	result := pub.Publish(context.Background(), models.PublishRequest{
		ImageURL: "https://cdn.example.com/x.gif",
	}, igCreds())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "media type unsupported")
	assert.False(t, publishCalled, "phase 2 must not run after phase 1 fails")
}

func TestInstagramPublishPhaseFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ig-1/media":
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case "/ig-1/media_publish":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "container not ready"},
			})
		}
	}))
	defer server.Close()

	pub := NewInstagramPublisher(server.URL, server.Client(), 0)
	result := pub.Publish(context.Background(), models.PublishRequest{
		ImageURL: "https://cdn.example.com/x.jpg",
	}, igCreds())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "container not ready")
}

func TestInstagramMissingCredentials(t *testing.T) {
	t.Parallel()
	pub := NewInstagramPublisher("http://unused", nil, 0)

	tests := []struct {
		name string
		cred *models.PlatformCredentials
	}{
		{name: "nil credentials", cred: nil},
		{name: "disconnected", cred: &models.PlatformCredentials{InstagramID: "ig", PageToken: "t"}},
		{name: "no instagram account", cred: &models.PlatformCredentials{PageToken: "t", Connected: true}},
		{name: "no token at all", cred: &models.PlatformCredentials{InstagramID: "ig", Connected: true}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := pub.Publish(context.Background(), models.PublishRequest{ImageURL: "u"}, tt.cred)
			assert.False(t, result.Success)
		})
	}
}

func TestInstagramFallsBackToSystemToken(t *testing.T) {
	t.Parallel()

	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodeBody(t, r)
		switch r.URL.Path {
		case "/ig-1/media":
			gotToken = payload["access_token"]
			json.NewEncoder(w).Encode(map[string]string{"id": "c1"})
		case "/ig-1/media_publish":
			json.NewEncoder(w).Encode(map[string]string{"id": "m1"})
		}
	}))
	defer server.Close()

	cred := &models.PlatformCredentials{
		InstagramID: "ig-1",
		SystemToken: "system-token",
		Connected:   true,
	}

	pub := NewInstagramPublisher(server.URL, server.Client(), 0)
	result := pub.Publish(context.Background(), models.PublishRequest{ImageURL: "u"}, cred)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "system-token", gotToken)
}
