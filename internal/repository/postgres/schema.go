package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users and leave_requests tables if they do not
// exist. Called by the seed command, not the server.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				username       TEXT PRIMARY KEY,
				password_hash  TEXT NOT NULL,
				role           TEXT NOT NULL,
				employee_id    TEXT NOT NULL UNIQUE,
				supervisor_id  TEXT
			)
		`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id                    UUID PRIMARY KEY,
				employee_id           TEXT NOT NULL,
				supervisor_id         TEXT NOT NULL,
				leave_type            TEXT NOT NULL,
				start_date            DATE NOT NULL,
				end_date              DATE NOT NULL,
				reason                TEXT,
				status                TEXT NOT NULL,
				requested_at          TIMESTAMPTZ NOT NULL,
				supervisor_action_by  TEXT,
				supervisor_action_at  TIMESTAMPTZ,
				hr_action_by          TEXT,
				hr_action_at          TIMESTAMPTZ,
				rejection_reason      TEXT,
				CONSTRAINT dates_ordered CHECK (end_date >= start_date)
			)
		`, tables.LeaveRequests),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_employee_idx
			ON %s (employee_id, requested_at DESC)
		`, tables.LeaveRequests, tables.LeaveRequests),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_status_idx
			ON %s (status, supervisor_id)
		`, tables.LeaveRequests, tables.LeaveRequests),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropTables removes the workflow tables. Used by the seed command's
// --drop-tables flag; never callable from the server.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{tables.LeaveRequests, tables.Users} {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
