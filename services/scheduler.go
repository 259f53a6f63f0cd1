package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/publishers"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ContentStore is what the scheduler needs from the content catalog.
type ContentStore interface {
	ContentLister
	RecordUsage(ctx context.Context, itemID string) error
}

// CredentialStore reads the umbrella account's platform credentials.
type CredentialStore interface {
	GetCredentials(ctx context.Context, accountID string) (*models.PlatformCredentials, error)
}

// Scheduler is the top-level posting orchestrator. Every tick it asks the
// slot clock which posting slots are due, and for each one resolves
// tenant, content and credentials, publishes, records usage, and consumes
// the slot. Ticks are serialized: a tick still in flight skips the next
// firing instead of overlapping it.
type Scheduler struct {
	clock     *SlotClock
	rotation  *TenantRotation
	selector  *ContentSelector
	contents  ContentStore
	creds     CredentialStore
	pubs      map[models.Platform]publishers.PlatformPublisher
	accountID string

	tickInterval time.Duration
	slotDelay    time.Duration

	cron *cron.Cron
	now  func() time.Time
}

type SchedulerOptions struct {
	Clock        *SlotClock
	Rotation     *TenantRotation
	Contents     ContentStore
	Credentials  CredentialStore
	Publishers   map[models.Platform]publishers.PlatformPublisher
	AccountID    string
	TickInterval time.Duration
	SlotDelay    time.Duration
	Location     *time.Location
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

func NewScheduler(opts SchedulerOptions) *Scheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(logrus.StandardLogger())
	return &Scheduler{
		clock:        opts.Clock,
		rotation:     opts.Rotation,
		selector:     NewContentSelector(opts.Contents),
		contents:     opts.Contents,
		creds:        opts.Credentials,
		pubs:         opts.Publishers,
		accountID:    opts.AccountID,
		tickInterval: opts.TickInterval,
		slotDelay:    opts.SlotDelay,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger)),
		),
		now: now,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.tickInterval), func() {
		s.Tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not register scheduler tick: %w", err)
	}

	s.cron.Start()
	logrus.Infof("Posting scheduler started, tick every %s", s.tickInterval)
	return nil
}

// Stop halts the timer and waits for an in-flight tick to finish naturally.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logrus.Info("Posting scheduler stopped")
}

// Tick runs one pass over the pending slots. It never returns an error and
// never panics through the cron chain: every failure is logged and contained
// at slot or platform granularity.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()
	pending := s.clock.PendingSlots(now)
	if len(pending) == 0 {
		return
	}

	cred, err := s.creds.GetCredentials(ctx, s.accountID)
	if err != nil {
		logrus.Errorf("Error fetching platform credentials: %v", err)
		return
	}
	if cred == nil || !cred.Connected {
		logrus.WithField("account_id", s.accountID).Info("No connected platform credentials, skipping tick")
		return
	}

	for i, hour := range pending {
		s.processSlot(ctx, hour, cred)
		s.clock.MarkExecuted(s.now(), hour)

		if i < len(pending)-1 {
			time.Sleep(s.slotDelay)
		}
	}
}

// processSlot runs the full pipeline for one slot. A platform failure or a
// missing piece of content only affects this slot; the slot is consumed by
// the caller either way.
func (s *Scheduler) processSlot(ctx context.Context, hour int, cred *models.PlatformCredentials) {
	tenant := s.rotation.TenantForSlot(hour)
	log := logrus.WithFields(logrus.Fields{"tenant": tenant, "slot": hour})

	textItem, err := s.selector.Next(ctx, tenant, models.CategoryPostText)
	if err != nil {
		log.Errorf("Error selecting text content: %v", err)
	}
	imageItem, err := s.selector.Next(ctx, tenant, models.CategoryPostImage)
	if err != nil {
		log.Errorf("Error selecting image content: %v", err)
	}

	message := fallbackMessage(tenant)
	if textItem != nil {
		message = textItem.Body
	}

	req := models.PublishRequest{
		TenantID: tenant,
		Message:  message,
	}
	if imageItem != nil {
		req.ImageURL = imageItem.URL
	}

	if cred.PageID != "" {
		if pub, ok := s.pubs[models.Facebook]; ok {
			s.recordResult(ctx, log, pub.Publish(ctx, req, cred), textItem)
		}
	} else {
		log.Debug("No Facebook page configured, skipping")
	}

	if cred.InstagramID == "" {
		log.Debug("No Instagram account configured, skipping")
		return
	}
	if imageItem == nil {
		log.Info("No image content, skipping Instagram")
		return
	}

	if pub, ok := s.pubs[models.Instagram]; ok {
		s.recordResult(ctx, log, pub.Publish(ctx, req, cred), imageItem)
	}
}

// recordResult logs a publish outcome and, on success, bumps usage for the
// content item the platform consumed (text for Facebook, image for Instagram).
func (s *Scheduler) recordResult(ctx context.Context, log *logrus.Entry, result models.PublishResult, item *models.ContentItem) {
	log = log.WithField("platform", result.Platform)
	if !result.Success {
		log.Warnf("Publish failed: %s", result.Message)
		return
	}

	log.WithField("post_id", result.PostID).Info("Published")

	if item == nil {
		return
	}
	if err := s.contents.RecordUsage(ctx, item.ID); err != nil {
		log.Errorf("Error recording usage for item %s: %v", item.ID, err)
	}
}

// SchedulerStatus is the ops-facing view of today's progress.
type SchedulerStatus struct {
	DayKey   string `json:"day_key"`
	Executed []int  `json:"executed_slots"`
	Pending  []int  `json:"pending_slots"`
}

func (s *Scheduler) Status() SchedulerStatus {
	now := s.now()
	return SchedulerStatus{
		DayKey:   s.clock.DayKey(now),
		Executed: s.clock.ExecutedSlots(now),
		Pending:  s.clock.PendingSlots(now),
	}
}

func fallbackMessage(tenant string) string {
	return fmt.Sprintf("Looking for a fresh coat? %s is booking free painting estimates this week.", tenant)
}
