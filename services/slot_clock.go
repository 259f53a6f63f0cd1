package services

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// SlotClock maps wall-clock time in a fixed civil timezone onto the
// configured posting hours and remembers which of today's slots already ran.
// The executed set is keyed by the current day; when the day key changes the
// set is cleared, so yesterday's slots are never replayed and today's quota
// starts fresh.
type SlotClock struct {
	hours []int
	loc   *time.Location

	mu       sync.Mutex
	dayKey   string
	executed map[int]bool
}

func NewSlotClock(hours []int, loc *time.Location) *SlotClock {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)
	return &SlotClock{
		hours:    sorted,
		loc:      loc,
		executed: make(map[int]bool),
	}
}

// DayKey identifies a calendar day in the clock's timezone, e.g. "2026-1-10".
func (c *SlotClock) DayKey(now time.Time) string {
	local := now.In(c.loc)
	return fmt.Sprintf("%d-%d-%d", local.Year(), int(local.Month()), local.Day())
}

// PendingSlots returns, in ascending order, every configured hour that is due
// (hour <= current local hour) and has not yet executed today. A process that
// was down across slot transitions picks all of them up here on its first
// tick after restart.
func (c *SlotClock) PendingSlots(now time.Time) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollDay(now)

	currentHour := now.In(c.loc).Hour()
	var pending []int
	for _, h := range c.hours {
		if h > currentHour {
			break
		}
		if !c.executed[h] {
			pending = append(pending, h)
		}
	}
	return pending
}

// MarkExecuted consumes a slot for the current day, success or failure.
func (c *SlotClock) MarkExecuted(now time.Time, hour int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollDay(now)
	c.executed[hour] = true
}

// ExecutedSlots returns the hours already consumed today, ascending.
func (c *SlotClock) ExecutedSlots(now time.Time) []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollDay(now)

	var done []int
	for _, h := range c.hours {
		if c.executed[h] {
			done = append(done, h)
		}
	}
	return done
}

// rollDay clears the executed set on day-key change. Caller holds c.mu.
func (c *SlotClock) rollDay(now time.Time) {
	key := c.DayKey(now)
	if key != c.dayKey {
		c.dayKey = key
		c.executed = make(map[int]bool)
	}
}
