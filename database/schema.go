package database

import (
	"context"
	"log"
)

// EnsureSchema creates required tables if they do not exist.
func EnsureSchema() {
	if Pool == nil {
		return
	}
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            company TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS password_resets (
            token TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            expires_at TIMESTAMPTZ NOT NULL,
            used_at TIMESTAMPTZ NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS registrations (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            xrgi_id TEXT NOT NULL,
            form JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS registrations_user_id_idx ON registrations(user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS devices (
            xrgi_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            model TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending',
            site_city TEXT NOT NULL DEFAULT '',
            site_country TEXT NOT NULL DEFAULT '',
            registration_id TEXT NULL REFERENCES registrations(id) ON DELETE SET NULL,
            installed_at TIMESTAMPTZ NULL,
            operating_hours NUMERIC NOT NULL DEFAULT 0,
            starts BIGINT NOT NULL DEFAULT 0,
            electricity_kwh NUMERIC NOT NULL DEFAULT 0,
            heat_kwh NUMERIC NOT NULL DEFAULT 0,
            configuration JSONB NOT NULL DEFAULT '{}'::jsonb,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS devices_status_idx ON devices(status)`,
		`CREATE TABLE IF NOT EXISTS service_calls (
            id BIGSERIAL PRIMARY KEY,
            xrgi_id TEXT NOT NULL REFERENCES devices(xrgi_id) ON DELETE CASCADE,
            status TEXT NOT NULL DEFAULT 'open', -- 'open' or 'closed'
            priority TEXT NOT NULL DEFAULT 'normal',
            category TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            technician TEXT NOT NULL DEFAULT '',
            opened_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            closed_at TIMESTAMPTZ NULL
        )`,
		`CREATE INDEX IF NOT EXISTS service_calls_xrgi_idx ON service_calls(xrgi_id, opened_at DESC)`,
		`CREATE TABLE IF NOT EXISTS service_reports (
            id BIGSERIAL PRIMARY KEY,
            xrgi_id TEXT NOT NULL REFERENCES devices(xrgi_id) ON DELETE CASCADE,
            call_id BIGINT NULL REFERENCES service_calls(id) ON DELETE SET NULL,
            technician TEXT NOT NULL,
            visit_date DATE NOT NULL,
            work_performed TEXT NOT NULL,
            findings TEXT NOT NULL DEFAULT '',
            summary TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS service_reports_xrgi_idx ON service_reports(xrgi_id, visit_date DESC)`,
	}

	for _, s := range stmts {
		if _, err := Pool.Exec(ctx, s); err != nil {
			log.Printf("schema ensure error: %v in stmt: %s", err, s)
		}
	}
}
