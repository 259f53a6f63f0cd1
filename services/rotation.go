package services

import (
	"context"
	"sort"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// TenantRotation distributes posting slots across tenants from a fixed
// ordered list. The mapping is a pure function of the slot hour: the same
// hour always lands on the same tenant, and over a full day each tenant
// receives floor(slots/tenants) or ceil(slots/tenants) posts.
type TenantRotation struct {
	tenants []string
}

func NewTenantRotation(tenants []string) *TenantRotation {
	return &TenantRotation{tenants: append([]string(nil), tenants...)}
}

func (r *TenantRotation) TenantForSlot(hour int) string {
	if len(r.tenants) == 0 {
		return ""
	}
	return r.tenants[hour%len(r.tenants)]
}

func (r *TenantRotation) Len() int {
	return len(r.tenants)
}

// ContentLister is the read side of the content store the selector needs.
type ContentLister interface {
	ListActive(ctx context.Context, tenantID string, category models.ContentCategory) ([]*models.ContentItem, error)
}

// ContentSelector picks the next catalog item for a tenant and category:
// least used first, ties broken by oldest use, never-used items ahead of
// everything. A nil item with nil error means the tenant has no active
// content in that category, which callers treat as skippable.
type ContentSelector struct {
	store ContentLister
}

func NewContentSelector(store ContentLister) *ContentSelector {
	return &ContentSelector{store: store}
}

func (s *ContentSelector) Next(ctx context.Context, tenantID string, category models.ContentCategory) (*models.ContentItem, error) {
	items, err := s.store.ListActive(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	// The SQL read contract already orders by rotation; re-sorting keeps the
	// guarantee independent of the store implementation.
	sorted := append([]*models.ContentItem(nil), items...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].UsageCount != sorted[b].UsageCount {
			return sorted[a].UsageCount < sorted[b].UsageCount
		}
		return beforeNullsFirst(sorted[a].LastUsedAt, sorted[b].LastUsedAt)
	})

	return sorted[0], nil
}

// beforeNullsFirst orders nullable last-used timestamps with never-used
// items first, then oldest use first.
func beforeNullsFirst(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}
