// Package importer implements the proposal import pipeline: format
// detection, CSV tokenization, per-format row mapping, free-text enum
// normalization, identity-based deduplication, and the orchestration that
// hands candidates off to the destination store.
//
// The package has no HTTP or UI dependencies and owns parsed state only
// for the duration of a single Import call.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Format identifies one of the supported export formats.
type Format string

const (
	FormatCustomCSV     Format = "custom_csv"
	FormatStandardCSV   Format = "papercall_csv"
	FormatGoogleFormCSV Format = "google_form_csv"
	FormatPaperCallJSON Format = "papercall_json"
)

// RawCandidate is the canonical intermediate record produced by every
// mapper, before enum normalization. Optional fields use the empty string
// for "absent"; the store maps empty strings to NULL columns.
//
// Invariant: Title and SpeakerEmail are non-empty whenever a mapper emits
// a candidate. Rows failing this are skipped with a recorded reason.
type RawCandidate struct {
	SourceID        string // native export ID, or synthesized hash key
	Title           string
	Abstract        string
	TalkDetail      string
	DurationRaw     string // free text, pre-normalization
	LanguageRaw     string // free text workshop language, if the format has one
	SpeakerName     string
	SpeakerEmail    string
	SpeakerHandle   string // twitter handle or SNS username
	Bio             string
	IconURL         string
	Notes           string
	ConferenceLabel string // free text, informational only
	SubmittedAtRaw  string // free text timestamp from the export
}

// NormalizedCandidate is a RawCandidate plus the resolved enumerations.
// Produced once per RawCandidate and immutable thereafter.
type NormalizedCandidate struct {
	RawCandidate

	Duration          TalkDuration
	DurationDefaulted bool // true when DurationRaw did not match any rule
	Language          WorkshopLanguage
	LanguageDefaulted bool
}

// RowError records a per-row condition that caused the row to be skipped.
// Row numbers are 1-based logical row numbers counting the header row, so
// the first data row of a CSV file is row 2. Blank physical lines produce
// no logical row, so after a blank line the number is lower than the
// file's physical line number. For JSON input the number is the 1-based
// entry index.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the per-file outcome of one Import call. It is created
// empty at orchestration start, appended to as rows are processed, and
// never mutated after return.
type ImportResult struct {
	ImportID  string        `json:"importId"`
	Format    Format        `json:"format,omitempty"`
	Imported  int           `json:"importedCount"`
	Skipped   int           `json:"skippedCount"` // duplicates suppressed
	RowErrors []RowError    `json:"rowErrors,omitempty"`
	Warnings  []RowError    `json:"warnings,omitempty"` // e.g. defaulted enums
	Duration  time.Duration `json:"-"`
}

// Options is the caller-supplied options bag for one import call.
type Options struct {
	// SkipDuplicates suppresses candidates whose identity already exists
	// in the destination store (or earlier in the same batch).
	SkipDuplicates bool
}

// Target names the conference and record owner for imported proposals.
// Both are supplied by the caller; the pipeline never parses or
// hard-codes them.
type Target struct {
	ConferenceID uuid.UUID
	OwnerID      uuid.UUID
}

// NewProposal is the persistence hand-off payload for one candidate.
type NewProposal struct {
	ID           uuid.UUID
	ConferenceID uuid.UUID
	OwnerID      uuid.UUID
	IdentityKey  string
	Candidate    NormalizedCandidate
}

// Store is the destination collaborator the orchestrator writes to.
// HasIdentity is a read-only lookup used for duplicate detection; it is
// expected to reflect rows created earlier in the same import call
// (read-your-writes), typically by being transaction-bound.
type Store interface {
	HasIdentity(ctx context.Context, conferenceID uuid.UUID, key string) (bool, error)
	CreateProposal(ctx context.Context, p NewProposal) error
}
