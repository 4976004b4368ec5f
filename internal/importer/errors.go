package importer

// errors.go defines the import error taxonomy.
//
// Two severities exist:
//   - Fatal (whole-file) errors abort the import before any persistence:
//     ErrEmptyFile, UnrecognizedFormatError, MalformedRowError,
//     InvalidJSONError, ErrEmptyArray.
//   - Row-level errors (column-count mismatch, missing required field,
//     store rejection) are recorded in ImportResult.RowErrors and the
//     batch continues.

import (
	"errors"
	"fmt"
)

// ErrEmptyFile indicates the uploaded file contained no data at all.
var ErrEmptyFile = errors.New("empty file")

// ErrEmptyArray indicates a well-formed JSON document whose top-level
// array has zero elements. Distinct from InvalidJSONError so the caller
// can word the message differently.
var ErrEmptyArray = errors.New("JSON array contains no entries")

// UnrecognizedFormatError indicates the input matched none of the known
// header shapes. Preview carries a truncated copy of the offending header
// line for operator troubleshooting.
type UnrecognizedFormatError struct {
	Preview string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized import format (header: %q)", e.Preview)
}

// MalformedRowError indicates end-of-input was reached while still inside
// an open quoted field. Partial rows are never salvaged.
type MalformedRowError struct {
	Row int // 1-based logical row where the open quote began
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed CSV: unterminated quoted field starting at row %d", e.Row)
}

// InvalidJSONError wraps a JSON decode failure for PaperCall JSON input.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }
