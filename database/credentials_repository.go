package database

import (
	"context"
	"database/sql"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// GetCredentials fetches the single credentials row for an umbrella account.
// Returns (nil, nil) when none exists; callers treat that as "nothing to
// post with", not an error.
func (d *Database) GetCredentials(ctx context.Context, accountID string) (*models.PlatformCredentials, error) {
	cred := &models.PlatformCredentials{}
	query := `SELECT id, account_id, COALESCE(page_id, ''), COALESCE(page_token, ''),
			  COALESCE(system_token, ''), COALESCE(instagram_id, ''), connected, updated_at
			  FROM platform_credentials WHERE account_id = $1`

	err := d.DB.QueryRowContext(ctx, query, accountID).Scan(&cred.ID, &cred.AccountID,
		&cred.PageID, &cred.PageToken, &cred.SystemToken, &cred.InstagramID,
		&cred.Connected, &cred.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// SaveCredentials upserts the umbrella account row. The OAuth flow that
// acquires the tokens lives outside this service; this exists for operator
// seeding and tests.
func (d *Database) SaveCredentials(ctx context.Context, cred *models.PlatformCredentials) error {
	query := `INSERT INTO platform_credentials
			  (id, account_id, page_id, page_token, system_token, instagram_id, connected, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
			  ON CONFLICT (account_id)
			  DO UPDATE SET page_id = $3, page_token = $4, system_token = $5,
			  instagram_id = $6, connected = $7, updated_at = CURRENT_TIMESTAMP`

	_, err := d.DB.ExecContext(ctx, query, cred.ID, cred.AccountID, cred.PageID,
		cred.PageToken, cred.SystemToken, cred.InstagramID, cred.Connected)
	return err
}
