package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
	"github.com/cryptocreeper94-sudo/paintpros-scheduler/publishers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContentStore struct {
	mu    sync.Mutex
	items map[string][]*models.ContentItem
	usage map[string]int
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		items: make(map[string][]*models.ContentItem),
		usage: make(map[string]int),
	}
}

func (f *fakeContentStore) add(tenantID string, category models.ContentCategory, item *models.ContentItem) {
	item.TenantID = tenantID
	item.Category = category
	key := tenantID + "/" + string(category)
	f.items[key] = append(f.items[key], item)
}

func (f *fakeContentStore) ListActive(ctx context.Context, tenantID string, category models.ContentCategory) ([]*models.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[tenantID+"/"+string(category)], nil
}

func (f *fakeContentStore) RecordUsage(ctx context.Context, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage[itemID]++
	return nil
}

type fakeCredStore struct {
	cred *models.PlatformCredentials
	err  error
}

func (f *fakeCredStore) GetCredentials(ctx context.Context, accountID string) (*models.PlatformCredentials, error) {
	return f.cred, f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	platform models.Platform
	fail     bool
	calls    []models.PublishRequest
}

func (f *fakePublisher) Publish(ctx context.Context, req models.PublishRequest, cred *models.PlatformCredentials) models.PublishResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.fail {
		return models.PublishResult{Platform: f.platform, Success: false, Message: "simulated rejection"}
	}
	return models.PublishResult{Platform: f.platform, Success: true, PostID: "ext-1"}
}

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type schedulerFixture struct {
	scheduler *Scheduler
	contents  *fakeContentStore
	facebook  *fakePublisher
	instagram *fakePublisher
}

func newSchedulerFixture(t *testing.T, hours []int, now time.Time, cred *models.PlatformCredentials) *schedulerFixture {
	t.Helper()

	contents := newFakeContentStore()
	facebook := &fakePublisher{platform: models.Facebook}
	instagram := &fakePublisher{platform: models.Instagram}

	scheduler := NewScheduler(SchedulerOptions{
		Clock:       NewSlotClock(hours, time.UTC),
		Rotation:    NewTenantRotation([]string{"acme-painting", "fresh-coat"}),
		Contents:    contents,
		Credentials: &fakeCredStore{cred: cred},
		Publishers: map[models.Platform]publishers.PlatformPublisher{
			models.Facebook:  facebook,
			models.Instagram: instagram,
		},
		AccountID:    "darkwave",
		TickInterval: time.Minute,
		SlotDelay:    0,
		Location:     time.UTC,
		Now:          func() time.Time { return now },
	})

	return &schedulerFixture{
		scheduler: scheduler,
		contents:  contents,
		facebook:  facebook,
		instagram: instagram,
	}
}

func connectedCreds() *models.PlatformCredentials {
	return &models.PlatformCredentials{
		ID:          "cred-1",
		AccountID:   "darkwave",
		PageID:      "page-1",
		PageToken:   "token",
		InstagramID: "ig-1",
		Connected:   true,
	}
}

func TestTickExecutesEachSlotAtMostOnce(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 13, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9, 12}, now, connectedCreds())

	fx.contents.add("acme-painting", models.CategoryPostText, &models.ContentItem{ID: "t1", Body: "hello", Active: true})
	fx.contents.add("fresh-coat", models.CategoryPostText, &models.ContentItem{ID: "t2", Body: "hi", Active: true})

	// Both slots are due; repeated ticks within the same day must not
	// re-execute them.
	for i := 0; i < 5; i++ {
		fx.scheduler.Tick(context.Background())
	}

	assert.Equal(t, 2, fx.facebook.callCount())
}

func TestTickWithoutCredentialsCallsNoPublisher(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 13, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9}, now, nil)

	require.NotPanics(t, func() {
		fx.scheduler.Tick(context.Background())
	})

	assert.Zero(t, fx.facebook.callCount())
	assert.Zero(t, fx.instagram.callCount())

	// The tick aborted before consuming the slot, so a later tick with
	// credentials would still see it pending.
	assert.Equal(t, []int{9}, fx.scheduler.Status().Pending)
}

func TestTickSkipsInstagramWithoutImage(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9}, now, connectedCreds())

	// hour 9 -> rotation index 1 -> fresh-coat
	fx.contents.add("fresh-coat", models.CategoryPostText, &models.ContentItem{ID: "t1", Body: "text only", Active: true})

	fx.scheduler.Tick(context.Background())

	assert.Equal(t, 1, fx.facebook.callCount())
	assert.Zero(t, fx.instagram.callCount())
}

func TestTickPublishesBothPlatformsAndRecordsUsage(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9}, now, connectedCreds())

	fx.contents.add("fresh-coat", models.CategoryPostText, &models.ContentItem{ID: "txt", Body: "new colors", Active: true})
	fx.contents.add("fresh-coat", models.CategoryPostImage, &models.ContentItem{ID: "img", URL: "https://cdn.example.com/1.jpg", Active: true})

	fx.scheduler.Tick(context.Background())

	require.Equal(t, 1, fx.facebook.callCount())
	require.Equal(t, 1, fx.instagram.callCount())
	assert.Equal(t, "new colors", fx.facebook.calls[0].Message)
	assert.Equal(t, "https://cdn.example.com/1.jpg", fx.instagram.calls[0].ImageURL)

	// Facebook success credits the text item, Instagram success the image.
	assert.Equal(t, 1, fx.contents.usage["txt"])
	assert.Equal(t, 1, fx.contents.usage["img"])
}

func TestPublishFailureStillConsumesSlot(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9}, now, connectedCreds())
	fx.facebook.fail = true

	fx.contents.add("fresh-coat", models.CategoryPostText, &models.ContentItem{ID: "txt", Body: "x", Active: true})

	fx.scheduler.Tick(context.Background())
	fx.scheduler.Tick(context.Background())

	// No retry storm: the failed slot is consumed, usage never recorded.
	assert.Equal(t, 1, fx.facebook.callCount())
	assert.Zero(t, fx.contents.usage["txt"])
	assert.Equal(t, []int{9}, fx.scheduler.Status().Executed)
}

func TestTickUsesFallbackMessageWithoutTextContent(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 9, 30, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9}, now, connectedCreds())

	fx.scheduler.Tick(context.Background())

	require.Equal(t, 1, fx.facebook.callCount())
	assert.Contains(t, fx.facebook.calls[0].Message, "fresh-coat")
}

func TestTickProcessesMissedSlotsInAscendingOrder(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.January, 10, 15, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, []int{9, 12, 15}, now, connectedCreds())

	fx.scheduler.Tick(context.Background())

	require.Equal(t, 3, fx.facebook.callCount())
	// hour 9 -> fresh-coat, 12 -> acme-painting, 15 -> fresh-coat
	assert.Equal(t, "fresh-coat", fx.facebook.calls[0].TenantID)
	assert.Equal(t, "acme-painting", fx.facebook.calls[1].TenantID)
	assert.Equal(t, "fresh-coat", fx.facebook.calls[2].TenantID)
}
