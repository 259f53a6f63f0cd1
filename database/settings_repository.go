package database

import (
	"context"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// ListBlogSettings returns every tenant with blog generation enabled.
func (d *Database) ListBlogSettings(ctx context.Context) ([]*models.BlogSettings, error) {
	query := `SELECT tenant_id, posts_per_week, enabled FROM blog_settings
			  WHERE enabled = true ORDER BY tenant_id`

	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.BlogSettings
	for rows.Next() {
		s := &models.BlogSettings{}
		if err := rows.Scan(&s.TenantID, &s.PostsPerWeek, &s.Enabled); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

func (d *Database) GetBlogSettings(ctx context.Context, tenantID string) (*models.BlogSettings, error) {
	s := &models.BlogSettings{}
	query := `SELECT tenant_id, posts_per_week, enabled FROM blog_settings WHERE tenant_id = $1`

	err := d.DB.QueryRowContext(ctx, query, tenantID).Scan(&s.TenantID, &s.PostsPerWeek, &s.Enabled)
	if err != nil {
		return nil, err
	}
	return s, nil
}
