package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BlogStore is what the blog scheduler needs from persistence.
type BlogStore interface {
	ListBlogSettings(ctx context.Context) ([]*models.BlogSettings, error)
	GetBlogSettings(ctx context.Context, tenantID string) (*models.BlogSettings, error)
	CountBlogPostsSince(ctx context.Context, tenantID string, since time.Time) (int, error)
	RecentBlogTitles(ctx context.Context, tenantID string, limit int) ([]string, error)
	CreateBlogPost(ctx context.Context, post *models.BlogPost) error
}

// ContentGenerator synthesizes an article for a tenant on a topic. The
// actual call (an AI backend in production) is a black box to the scheduler.
type ContentGenerator func(ctx context.Context, tenantID, topic string) (title, body string, err error)

// defaultTopics seeds topic selection for tenants without a custom list.
var defaultTopics = []string{
	"interior painting: choosing colors that sell your home",
	"exterior painting: how weather affects your timeline",
	"cabinet refinishing: why it beats replacement",
	"deck staining: protecting wood through the seasons",
	"drywall repair: what to fix before you paint",
	"commercial painting: minimizing downtime for your business",
	"color trends: what homeowners are asking for this year",
	"paint sheen: picking the right finish for every room",
	"pressure washing: prepping surfaces the right way",
	"wallpaper removal: when to DIY and when to call a pro",
}

// BlogScheduler is the one-shot generator variant: instead of rotating a
// fixed catalog it synthesizes novel posts, driven by a per-tenant weekly
// quota on a slower interval.
type BlogScheduler struct {
	store       BlogStore
	generate    ContentGenerator
	interval    time.Duration
	tenantDelay time.Duration
	lookback    int
	topics      []string

	cron *cron.Cron
	now  func() time.Time
}

type BlogSchedulerOptions struct {
	Store       BlogStore
	Generator   ContentGenerator
	Interval    time.Duration
	TenantDelay time.Duration
	// Lookback is how many recent titles are checked when steering topic
	// selection away from repeats.
	Lookback int
	Topics   []string
	Location *time.Location
	Now      func() time.Time
}

func NewBlogScheduler(opts BlogSchedulerOptions) *BlogScheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	topics := opts.Topics
	if len(topics) == 0 {
		topics = defaultTopics
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(logrus.StandardLogger())
	return &BlogScheduler{
		store:       opts.Store,
		generate:    opts.Generator,
		interval:    opts.Interval,
		tenantDelay: opts.TenantDelay,
		lookback:    opts.Lookback,
		topics:      topics,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger)),
		),
		now: now,
	}
}

func (b *BlogScheduler) Start() error {
	_, err := b.cron.AddFunc(fmt.Sprintf("@every %s", b.interval), func() {
		b.RunPass(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not register blog pass: %w", err)
	}

	b.cron.Start()
	logrus.Infof("Blog scheduler started, pass every %s", b.interval)
	return nil
}

func (b *BlogScheduler) Stop() {
	<-b.cron.Stop().Done()
	logrus.Info("Blog scheduler stopped")
}

// RunPass walks every enabled tenant, skipping those at or over their weekly
// quota, and generates one post for each that is under. One tenant failing
// never aborts the pass for the rest.
func (b *BlogScheduler) RunPass(ctx context.Context) {
	settings, err := b.store.ListBlogSettings(ctx)
	if err != nil {
		logrus.Errorf("Error listing blog settings: %v", err)
		return
	}

	for i, s := range settings {
		log := logrus.WithField("tenant", s.TenantID)

		count, err := b.store.CountBlogPostsSince(ctx, s.TenantID, b.now().AddDate(0, 0, -7))
		if err != nil {
			log.Errorf("Error counting recent blog posts: %v", err)
			continue
		}
		if count >= s.PostsPerWeek {
			log.Debugf("Weekly quota met (%d/%d), skipping", count, s.PostsPerWeek)
			continue
		}

		post, err := b.generateForTenant(ctx, s.TenantID)
		if err != nil {
			log.Errorf("Blog generation failed: %v", err)
		} else {
			log.WithField("slug", post.Slug).Info("Generated blog post")
		}

		if i < len(settings)-1 {
			time.Sleep(b.tenantDelay)
		}
	}
}

// RunNow is the operator trigger: generate immediately for one tenant, or
// for every enabled tenant when tenantID is empty, bypassing the quota.
func (b *BlogScheduler) RunNow(ctx context.Context, tenantID string) ([]*models.BlogPost, error) {
	var tenants []string
	if tenantID != "" {
		if _, err := b.store.GetBlogSettings(ctx, tenantID); err != nil {
			return nil, fmt.Errorf("unknown tenant %q: %w", tenantID, err)
		}
		tenants = []string{tenantID}
	} else {
		settings, err := b.store.ListBlogSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not list blog settings: %w", err)
		}
		for _, s := range settings {
			tenants = append(tenants, s.TenantID)
		}
	}

	var generated []*models.BlogPost
	for i, tenant := range tenants {
		post, err := b.generateForTenant(ctx, tenant)
		if err != nil {
			logrus.WithField("tenant", tenant).Errorf("Manual blog generation failed: %v", err)
			continue
		}
		generated = append(generated, post)

		if i < len(tenants)-1 {
			time.Sleep(b.tenantDelay)
		}
	}
	return generated, nil
}

func (b *BlogScheduler) generateForTenant(ctx context.Context, tenantID string) (*models.BlogPost, error) {
	titles, err := b.store.RecentBlogTitles(ctx, tenantID, b.lookback)
	if err != nil {
		return nil, fmt.Errorf("could not load recent titles: %w", err)
	}

	topic := pickTopic(b.topics, titles)

	title, body, err := b.generate(ctx, tenantID, topic)
	if err != nil {
		return nil, fmt.Errorf("content generation for topic %q: %w", topic, err)
	}

	post := &models.BlogPost{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Title:     title,
		Slug:      utils.UniqueSlug(title),
		Topic:     topic,
		Body:      body,
		CreatedAt: b.now(),
	}

	if err := b.store.CreateBlogPost(ctx, post); err != nil {
		return nil, fmt.Errorf("could not persist blog post: %w", err)
	}
	return post, nil
}

// pickTopic prefers topics whose keyword does not appear in any of the
// recent titles; when every topic has been covered recently it falls back to
// a random one.
func pickTopic(topics, recentTitles []string) string {
	for _, topic := range topics {
		if !keywordSeen(topicKeyword(topic), recentTitles) {
			return topic
		}
	}
	return topics[rand.Intn(len(topics))]
}

// topicKeyword is the part of a topic before the first colon, lowercased.
func topicKeyword(topic string) string {
	keyword, _, _ := strings.Cut(topic, ":")
	return strings.ToLower(strings.TrimSpace(keyword))
}

func keywordSeen(keyword string, titles []string) bool {
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), keyword) {
			return true
		}
	}
	return false
}
