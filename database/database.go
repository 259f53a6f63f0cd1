package database

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type Database struct {
	DB *sql.DB
}

func NewDatabase(connStr string) (*Database, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	database := &Database{DB: db}
	if err := database.createTables(); err != nil {
		return nil, err
	}

	return database, nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
			id VARCHAR(255) PRIMARY KEY,
			tenant_id VARCHAR(255) NOT NULL,
			category VARCHAR(50) NOT NULL,
			body TEXT,
			url VARCHAR(500),
			active BOOLEAN NOT NULL DEFAULT true,
			usage_count INTEGER NOT NULL DEFAULT 0,
			last_used_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_items_rotation
			ON content_items (tenant_id, category, active, usage_count, last_used_at)`,
		`CREATE TABLE IF NOT EXISTS platform_credentials (
			id VARCHAR(255) PRIMARY KEY,
			account_id VARCHAR(255) UNIQUE NOT NULL,
			page_id VARCHAR(255),
			page_token TEXT,
			system_token TEXT,
			instagram_id VARCHAR(255),
			connected BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id VARCHAR(255) PRIMARY KEY,
			tenant_id VARCHAR(255) NOT NULL,
			title VARCHAR(500) NOT NULL,
			slug VARCHAR(500) UNIQUE NOT NULL,
			topic VARCHAR(255),
			body TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_tenant_created
			ON blog_posts (tenant_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS blog_settings (
			tenant_id VARCHAR(255) PRIMARY KEY,
			posts_per_week INTEGER NOT NULL DEFAULT 2,
			enabled BOOLEAN NOT NULL DEFAULT false
		)`,
	}

	for _, query := range queries {
		if _, err := d.DB.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
