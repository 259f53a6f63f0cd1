package database

import (
	"context"
	"time"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

func (d *Database) CreateBlogPost(ctx context.Context, post *models.BlogPost) error {
	query := `INSERT INTO blog_posts (id, tenant_id, title, slug, topic, body, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := d.DB.ExecContext(ctx, query, post.ID, post.TenantID, post.Title,
		post.Slug, post.Topic, post.Body, post.CreatedAt)
	return err
}

// CountBlogPostsSince counts a tenant's posts created after the given instant,
// used for trailing-window quota checks.
func (d *Database) CountBlogPostsSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM blog_posts WHERE tenant_id = $1 AND created_at > $2`

	var count int
	err := d.DB.QueryRowContext(ctx, query, tenantID, since).Scan(&count)
	return count, err
}

// RecentBlogTitles returns a tenant's newest post titles, newest first.
func (d *Database) RecentBlogTitles(ctx context.Context, tenantID string, limit int) ([]string, error) {
	query := `SELECT title FROM blog_posts WHERE tenant_id = $1
			  ORDER BY created_at DESC LIMIT $2`

	rows, err := d.DB.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}

	return titles, rows.Err()
}
