package models

import "time"

type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Blog      Platform = "blog"
)

type ContentCategory string

const (
	CategoryPostText  ContentCategory = "post_text"
	CategoryPostImage ContentCategory = "post_image"
)

// ContentItem is one reusable piece of a tenant's posting catalog: either a
// text blurb (Body set) or an image (URL set), depending on Category.
// UsageCount only ever goes up, and only the scheduler increments it.
type ContentItem struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	Category   ContentCategory `json:"category"`
	Body       string          `json:"body,omitempty"`
	URL        string          `json:"url,omitempty"`
	Active     bool            `json:"active"`
	UsageCount int             `json:"usage_count"`
	LastUsedAt *time.Time      `json:"last_used_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PlatformCredentials is the umbrella account's connection to the external
// platforms. The scheduler reads it, the OAuth flow (out of scope here)
// writes it. PageToken is the long-lived page token stored at connect time;
// SystemToken, when present, can derive a fresher page-scoped token at
// publish time.
type PlatformCredentials struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	PageID      string    `json:"page_id,omitempty"`
	PageToken   string    `json:"-"`
	SystemToken string    `json:"-"`
	InstagramID string    `json:"instagram_id,omitempty"`
	Connected   bool      `json:"connected"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PublishResult struct {
	Platform Platform `json:"platform"`
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	PostID   string   `json:"post_id,omitempty"`
}

// PublishRequest carries everything a publisher needs for one attempt.
// ImageURL is optional for Facebook and mandatory for Instagram.
type PublishRequest struct {
	TenantID string
	Message  string
	ImageURL string
}

// BlogPost is a generated article for one tenant's site.
type BlogPost struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Topic     string    `json:"topic"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogSettings is a tenant's weekly generation quota.
type BlogSettings struct {
	TenantID     string `json:"tenant_id"`
	PostsPerWeek int    `json:"posts_per_week"`
	Enabled      bool   `json:"enabled"`
}
