package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id BIGINT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			funding_goal BIGINT NOT NULL,
			current_funding BIGINT NOT NULL DEFAULT 0,
			legal_entity VARCHAR(255) NOT NULL,
			contact_info VARCHAR(255) NOT NULL,
			category VARCHAR(64) NOT NULL,
			business_registration BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR(32) NOT NULL,
			amount_raised BIGINT NOT NULL DEFAULT 0,
			goal BIGINT NOT NULL,
			end_date BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id BIGINT PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			content_type VARCHAR(128) NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			uploaded_at BIGINT NOT NULL,
			finalized BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_docs (
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			doc_id BIGINT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position BIGINT NOT NULL,
			PRIMARY KEY (campaign_id, doc_id)
		)`,
		`CREATE TABLE IF NOT EXISTS contributions (
			id VARCHAR(64) PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			channel VARCHAR(16) NOT NULL,
			amount BIGINT NOT NULL,
			payment_method_id BIGINT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id BIGINT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			submitted_by VARCHAR(36) NOT NULL,
			submitted_at TIMESTAMP NOT NULL,
			status VARCHAR(32) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGINT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			funding_goal BIGINT NOT NULL,
			legal_entity VARCHAR(255) NOT NULL DEFAULT '',
			contact_info VARCHAR(255) NOT NULL DEFAULT '',
			category VARCHAR(64) NOT NULL DEFAULT '',
			business_registration BOOLEAN NOT NULL DEFAULT FALSE,
			submitted_by VARCHAR(36) NOT NULL,
			submitted_at TIMESTAMP NOT NULL,
			status VARCHAR(32) NOT NULL,
			duration_days INT NOT NULL,
			admin_notes TEXT,
			reviewed_at TIMESTAMP,
			reviewer VARCHAR(36)
		)`,
		`CREATE TABLE IF NOT EXISTS milestones (
			id BIGINT NOT NULL,
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			amount BIGINT NOT NULL,
			due_date BIGINT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (project_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS project_docs (
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			doc_id BIGINT NOT NULL,
			PRIMARY KEY (project_id, doc_id)
		)`,
		`CREATE TABLE IF NOT EXISTS payment_methods (
			id BIGINT PRIMARY KEY,
			owner VARCHAR(36) NOT NULL,
			method_type VARCHAR(32) NOT NULL,
			provider VARCHAR(64) NOT NULL,
			masked_account VARCHAR(64) NOT NULL,
			currency VARCHAR(8) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payment_verifications (
			id BIGINT PRIMARY KEY,
			investor VARCHAR(36) NOT NULL,
			spv_id BIGINT NOT NULL,
			deal_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			payment_method_id BIGINT NOT NULL,
			status VARCHAR(16) NOT NULL,
			fractions BIGINT NOT NULL DEFAULT 0,
			token_id BIGINT,
			created_at TIMESTAMP NOT NULL,
			verified_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS spv_deal_links (
			campaign_id BIGINT NOT NULL REFERENCES campaigns(id) ON DELETE CASCADE,
			deal_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (campaign_id, deal_id)
		)`,
		`CREATE TABLE IF NOT EXISTS mint_records (
			spv_id BIGINT NOT NULL,
			deal_id BIGINT NOT NULL,
			owner VARCHAR(36) NOT NULL,
			token_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (spv_id, deal_id, owner)
		)`,
		`CREATE TABLE IF NOT EXISTS id_sequences (
			entity VARCHAR(32) PRIMARY KEY,
			current_value BIGINT NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Seed one sequence row per entity so nextID can always UPDATE..RETURNING.
	entities := []string{
		"campaign", "document", "idea", "project",
		"payment_method", "payment_verification",
	}
	for _, entity := range entities {
		_, err := db.Exec(
			`INSERT INTO id_sequences (entity, current_value) VALUES ($1, 0)
			ON CONFLICT (entity) DO NOTHING`, entity)
		if err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_contributions_campaign ON contributions(campaign_id, channel)",
		"CREATE INDEX IF NOT EXISTS idx_documents_campaign ON documents(campaign_id)",
		"CREATE INDEX IF NOT EXISTS idx_payment_methods_owner ON payment_methods(owner)",
		"CREATE INDEX IF NOT EXISTS idx_payment_verifications_investor ON payment_verifications(investor)",
		"CREATE INDEX IF NOT EXISTS idx_projects_submitter ON projects(submitted_by)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
