package database

import (
	"context"
	"database/sql"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// ListActive returns a tenant's active items for one category in rotation
// order: least used first, ties broken by oldest use with never-used items
// ahead of everything.
func (d *Database) ListActive(ctx context.Context, tenantID string, category models.ContentCategory) ([]*models.ContentItem, error) {
	query := `SELECT id, tenant_id, category, COALESCE(body, ''), COALESCE(url, ''),
			  active, usage_count, last_used_at, created_at
			  FROM content_items
			  WHERE tenant_id = $1 AND category = $2 AND active = true
			  ORDER BY usage_count ASC, last_used_at ASC NULLS FIRST`

	rows, err := d.DB.QueryContext(ctx, query, tenantID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item := &models.ContentItem{}
		var lastUsed sql.NullTime
		if err := rows.Scan(&item.ID, &item.TenantID, &item.Category, &item.Body,
			&item.URL, &item.Active, &item.UsageCount, &lastUsed, &item.CreatedAt); err != nil {
			return nil, err
		}
		if lastUsed.Valid {
			item.LastUsedAt = &lastUsed.Time
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// RecordUsage bumps an item's usage counter and stamps last_used_at. Called
// once per successful publish that used the item.
func (d *Database) RecordUsage(ctx context.Context, itemID string) error {
	query := `UPDATE content_items
			  SET usage_count = usage_count + 1, last_used_at = CURRENT_TIMESTAMP
			  WHERE id = $1`

	_, err := d.DB.ExecContext(ctx, query, itemID)
	return err
}
