package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrator runs schema migrations at startup. Steps are embedded in the
// binary and tracked in schema_migrations so each runs exactly once.
type Migrator struct {
	pool *pgxpool.Pool
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_engagements",
		sql: `CREATE TABLE IF NOT EXISTS engagements (
			id SERIAL PRIMARY KEY,
			client_name VARCHAR(200) NOT NULL,
			client_email VARCHAR(200) NOT NULL DEFAULT '',
			client_type VARCHAR(20) NOT NULL DEFAULT 'direct',
			book_title VARCHAR(300) NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0 CHECK (word_count >= 0),
			start_date DATE,
			end_date DATE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			narration_style VARCHAR(100) NOT NULL DEFAULT '',
			is_returning BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CHECK (end_date IS NULL OR start_date IS NULL OR end_date >= start_date)
		);
		CREATE INDEX IF NOT EXISTS idx_engagements_status ON engagements(status);
		CREATE INDEX IF NOT EXISTS idx_engagements_dates ON engagements(start_date, end_date)`,
	},
	{
		name: "002_onboarding_checklists",
		sql: `CREATE TABLE IF NOT EXISTS onboarding_checklists (
			id SERIAL PRIMARY KEY,
			request_id INTEGER NOT NULL UNIQUE REFERENCES engagements(id),
			contract_sent BOOLEAN NOT NULL DEFAULT FALSE,
			contract_signed BOOLEAN NOT NULL DEFAULT FALSE,
			deposit_sent BOOLEAN NOT NULL DEFAULT FALSE,
			deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
			email_receipt_sent BOOLEAN NOT NULL DEFAULT FALSE,
			backend_folder BOOLEAN NOT NULL DEFAULT FALSE,
			manuscript_received BOOLEAN NOT NULL DEFAULT FALSE,
			strike_count INTEGER NOT NULL DEFAULT 0 CHECK (strike_count >= 0),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "003_archive_snapshots",
		sql: `CREATE TABLE IF NOT EXISTS archive_snapshots (
			id SERIAL PRIMARY KEY,
			engagement_id INTEGER NOT NULL,
			original_data JSONB NOT NULL,
			archived_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_blacklisted BOOLEAN NOT NULL DEFAULT FALSE,
			dnc_reason TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_archive_snapshots_engagement ON archive_snapshots(engagement_id)`,
	},
	{
		name: "004_invoices",
		sql: `CREATE TABLE IF NOT EXISTS invoices (
			id SERIAL PRIMARY KEY,
			project_id INTEGER NOT NULL UNIQUE REFERENCES engagements(id),
			pfh_rate DECIMAL(10,2) NOT NULL DEFAULT 0,
			pfh_count DECIMAL(10,4),
			pozotron_rate DECIMAL(10,2) NOT NULL DEFAULT 0,
			est_tax_rate DECIMAL(5,2) NOT NULL DEFAULT 0,
			other_expenses DECIMAL(10,2) NOT NULL DEFAULT 0,
			ledger_tab VARCHAR(10) NOT NULL DEFAULT 'open',
			reminders_sent INTEGER NOT NULL DEFAULT 0 CHECK (reminders_sent BETWEEN 0 AND 3),
			invoiced_date DATE,
			due_date DATE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "005_invoice_line_items",
		sql: `CREATE TABLE IF NOT EXISTS invoice_line_items (
			id SERIAL PRIMARY KEY,
			invoice_id INTEGER NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			description VARCHAR(300) NOT NULL DEFAULT '',
			amount DECIMAL(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "006_session_logs",
		sql: `CREATE TABLE IF NOT EXISTS session_logs (
			id SERIAL PRIMARY KEY,
			project_id INTEGER NOT NULL REFERENCES engagements(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			activity VARCHAR(20) NOT NULL,
			duration_hrs DECIMAL(6,2) NOT NULL CHECK (duration_hrs > 0),
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_session_logs_project ON session_logs(project_id)`,
	},
	{
		name: "007_users",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(200) NOT NULL UNIQUE,
			password_hash VARCHAR(200) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'operator',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

// RunMigrations executes all pending migrations in order
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Println("Starting database migrations...")

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrationsRun := 0
	for _, mig := range migrations {
		if applied[mig.name] {
			continue
		}

		log.Printf("  -> Running: %s", mig.name)
		if _, err := m.pool.Exec(ctx, mig.sql); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", mig.name, err)
		}

		if err := m.recordMigration(ctx, mig.name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.name, err)
		}
		migrationsRun++
	}

	if migrationsRun > 0 {
		log.Printf("Successfully ran %d new migration(s)", migrationsRun)
	} else {
		log.Println("All migrations already applied - database is up to date")
	}

	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(100) PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, "SELECT name FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) recordMigration(ctx context.Context, name string) error {
	_, err := m.pool.Exec(ctx, "INSERT INTO schema_migrations(name) VALUES($1)", name)
	return err
}
