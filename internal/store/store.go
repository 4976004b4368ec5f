// Package store persists imported proposals. The pgx-backed
// implementation wraps each import call in one transaction with a
// savepoint per row, so a single rejected record never poisons the rest
// of the batch, and nothing is visible until the caller commits.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openconf/cfp-admin/internal/importer"
)

// DBTX is the subset of pgx operations the store needs. Satisfied by
// both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Session is a transactional view of the store for one import call.
// It satisfies importer.Store, so duplicate lookups see rows created
// earlier in the same session (read-your-writes).
type Session interface {
	importer.Store
	RecordImport(ctx context.Context, entry ImportLogEntry) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is the destination-store surface the web layer consumes.
type Store interface {
	Begin(ctx context.Context) (Session, error)
	ListImports(ctx context.Context, limit int) ([]ImportLogEntry, error)
	Ping(ctx context.Context) error
}

// ImportLogEntry is one row of the import audit log.
type ImportLogEntry struct {
	ID           uuid.UUID `json:"id"`
	ConferenceID uuid.UUID `json:"conferenceId"`
	ImportedBy   uuid.UUID `json:"importedBy"`
	FileName     string    `json:"fileName"`
	Format       string    `json:"format"`
	Imported     int       `json:"importedCount"`
	Skipped      int       `json:"skippedCount"`
	RowErrors    int       `json:"rowErrorCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
