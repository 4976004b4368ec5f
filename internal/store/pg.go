package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openconf/cfp-admin/internal/importer"
)

// PG is the PostgreSQL-backed store.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG creates a store backed by pool.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// Ping verifies database connectivity.
func (p *PG) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Begin opens a transactional import session.
func (p *PG) Begin(ctx context.Context) (Session, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import transaction: %w", err)
	}
	return &pgSession{tx: tx}, nil
}

// ListImports returns the most recent import log entries, newest first.
func (p *PG) ListImports(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, conference_id, imported_by, file_name, format,
		       imported_count, skipped_count, row_error_count, created_at
		FROM import_log
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		var importedBy pgtype.UUID
		if err := rows.Scan(&e.ID, &e.ConferenceID, &importedBy, &e.FileName,
			&e.Format, &e.Imported, &e.Skipped, &e.RowErrors, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		if importedBy.Valid {
			e.ImportedBy = importedBy.Bytes
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// pgSession is one in-flight import transaction. The savepoint counter
// isolates each insert: PostgreSQL aborts the whole transaction on any
// error, so a per-row savepoint is what keeps a rejected record from
// blanking the rest of the batch.
type pgSession struct {
	tx pgx.Tx
	n  int
}

func (s *pgSession) HasIdentity(ctx context.Context, conferenceID uuid.UUID, key string) (bool, error) {
	var exists bool
	err := s.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM proposals WHERE conference_id = $1 AND identity_key = $2)`,
		conferenceID, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("identity lookup: %w", err)
	}
	return exists, nil
}

func (s *pgSession) CreateProposal(ctx context.Context, p importer.NewProposal) error {
	s.n++
	sp := fmt.Sprintf("sp_%d", s.n)

	if _, err := s.tx.Exec(ctx, "SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}

	c := p.Candidate
	_, err := s.tx.Exec(ctx, `
		INSERT INTO proposals (
			id, conference_id, identity_key, source_id,
			title, abstract, talk_detail,
			duration, duration_raw, language, language_raw,
			speaker_name, speaker_email, speaker_handle, bio, icon_url,
			notes, conference_label, submitted_at_raw, imported_by
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20
		)`,
		p.ID, p.ConferenceID, p.IdentityKey, toPgText(c.SourceID),
		c.Title, toPgText(c.Abstract), toPgText(c.TalkDetail),
		string(c.Duration), toPgText(c.DurationRaw), string(c.Language), toPgText(c.LanguageRaw),
		toPgText(c.SpeakerName), c.SpeakerEmail, toPgText(c.SpeakerHandle), toPgText(c.Bio), toPgText(c.IconURL),
		toPgText(c.Notes), toPgText(c.ConferenceLabel), toPgText(c.SubmittedAtRaw), toPgUUID(p.OwnerID),
	)
	if err != nil {
		if _, rbErr := s.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return fmt.Errorf("rollback savepoint: %w", rbErr)
		}
		return fmt.Errorf("insert proposal: %w", err)
	}

	if _, err := s.tx.Exec(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (s *pgSession) RecordImport(ctx context.Context, e ImportLogEntry) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO import_log (
			id, conference_id, imported_by, file_name, format,
			imported_count, skipped_count, row_error_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ConferenceID, toPgUUID(e.ImportedBy), e.FileName, e.Format,
		e.Imported, e.Skipped, e.RowErrors, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

func (s *pgSession) Commit(ctx context.Context) error   { return s.tx.Commit(ctx) }
func (s *pgSession) Rollback(ctx context.Context) error { return s.tx.Rollback(ctx) }

// toPgText maps the empty string (the pipeline's "absent") to NULL.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgUUID maps uuid.Nil to NULL.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}
