package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the store's tables if they do not exist. Run once at
// startup; every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS proposals (
			id               UUID PRIMARY KEY,
			conference_id    UUID NOT NULL,
			identity_key     TEXT NOT NULL,
			source_id        TEXT,
			title            TEXT NOT NULL,
			abstract         TEXT,
			talk_detail      TEXT,
			duration         TEXT NOT NULL,
			duration_raw     TEXT,
			language         TEXT NOT NULL,
			language_raw     TEXT,
			speaker_name     TEXT,
			speaker_email    TEXT NOT NULL,
			speaker_handle   TEXT,
			bio              TEXT,
			icon_url         TEXT,
			notes            TEXT,
			conference_label TEXT,
			submitted_at_raw TEXT,
			imported_by      UUID,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_proposals_identity
			ON proposals (conference_id, identity_key)`,
		`CREATE TABLE IF NOT EXISTS import_log (
			id              UUID PRIMARY KEY,
			conference_id   UUID NOT NULL,
			imported_by     UUID,
			file_name       TEXT NOT NULL,
			format          TEXT NOT NULL,
			imported_count  INT NOT NULL,
			skipped_count   INT NOT NULL,
			row_error_count INT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_import_log_created
			ON import_log (created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
