package importer

// importer.go is the orchestrator: a linear state machine with no
// retries. Detect → tokenize/decode → map → normalize → dedup → persist.
//
// Side effects are confined to the persistence hand-off, and no store
// write happens before detection and tokenization have succeeded for the
// entire file. A fatal structural error therefore never leaves some rows
// imported and others unevaluated.

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Importer runs the import pipeline against a destination store.
// It is synchronous and single-threaded per Import call: row order is
// preserved so error reporting by row index stays meaningful.
type Importer struct {
	store Store
}

// New creates an Importer writing to store.
func New(store Store) *Importer {
	return &Importer{store: store}
}

// Import processes one uploaded file and returns the per-file result.
// A non-nil error is a fatal whole-file condition (see errors.go); in
// that case nothing was persisted. Row-level problems never surface as
// an error, only as ImportResult.RowErrors.
func (imp *Importer) Import(ctx context.Context, data []byte, target Target, opts Options) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{ImportID: uuid.NewString()}

	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))

	format, err := Detect(data)
	if err != nil {
		return result, err
	}
	result.Format = format

	log := slog.Default().With("import_id", result.ImportID, "format", format)

	// Parse the whole file up front. Candidates carry the 1-based row
	// number they came from (counting the header row for CSV input).
	type mapped struct {
		row  int
		cand RawCandidate
	}
	var candidates []mapped

	collect := func(row int, cand RawCandidate, err error) {
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: row, Reason: err.Error()})
			return
		}
		candidates = append(candidates, mapped{row: row, cand: cand})
	}

	if format == FormatPaperCallJSON {
		entries, err := decodePaperCallJSON(data)
		if err != nil {
			return result, err
		}
		for i, e := range entries {
			cand, err := e.candidate()
			collect(i+1, cand, err)
		}
	} else {
		rows, err := Tokenize(data)
		if err != nil {
			return result, err
		}
		if len(rows) == 0 {
			return result, ErrEmptyFile
		}

		mapRow, err := mapperFor(format, rows[0])
		if err != nil {
			return result, &UnrecognizedFormatError{Preview: preview([]byte(firstLine(data)))}
		}

		for i, row := range rows[1:] {
			if isEmptyRow(row) {
				continue
			}
			cand, err := mapRow(row)
			collect(i+2, cand, err)
		}
	}

	// Map → normalize → dedup → hand-off, in row order. The seen set
	// gives later rows read-your-writes visibility of earlier rows in
	// the same batch even when the store lookup lags a transaction.
	seen := make(map[string]bool)

	for _, m := range candidates {
		nc := normalize(m.cand)
		if nc.DurationDefaulted && nc.DurationRaw != "" {
			result.Warnings = append(result.Warnings, RowError{
				Row:    m.row,
				Reason: fmt.Sprintf("ambiguous duration %q, defaulted to %s", nc.DurationRaw, DurationRegular),
			})
		}

		key := IdentityKey(nc.RawCandidate)

		if opts.SkipDuplicates {
			dup := seen[key]
			if !dup {
				var err error
				dup, err = imp.store.HasIdentity(ctx, target.ConferenceID, key)
				if err != nil {
					result.RowErrors = append(result.RowErrors, RowError{
						Row:    m.row,
						Reason: fmt.Sprintf("duplicate lookup: %v", err),
					})
					continue
				}
			}
			if dup {
				result.Skipped++
				continue
			}
		}

		err := imp.store.CreateProposal(ctx, NewProposal{
			ID:           uuid.New(),
			ConferenceID: target.ConferenceID,
			OwnerID:      target.OwnerID,
			IdentityKey:  key,
			Candidate:    nc,
		})
		if err != nil {
			// A store-level rejection is a row error, not fatal: one bad
			// record must not blank an otherwise good import.
			result.RowErrors = append(result.RowErrors, RowError{
				Row:    m.row,
				Reason: fmt.Sprintf("store: %v", err),
			})
			continue
		}

		seen[key] = true
		result.Imported++
	}

	result.Duration = time.Since(start)
	log.Info("import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"row_errors", len(result.RowErrors),
		"duration", result.Duration,
	)

	return result, nil
}

// mapperFor returns the row-mapping function for a detected CSV format.
func mapperFor(format Format, header []string) (func([]string) (RawCandidate, error), error) {
	switch format {
	case FormatCustomCSV:
		m, err := newCustomCSVMapper(header)
		if err != nil {
			return nil, err
		}
		return m.mapRow, nil
	case FormatStandardCSV:
		m, err := newStandardCSVMapper(header)
		if err != nil {
			return nil, err
		}
		return m.mapRow, nil
	case FormatGoogleFormCSV:
		return googleFormMapper{}.mapRow, nil
	}
	return nil, fmt.Errorf("no mapper for format %q", format)
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so downstream string handling never sees broken encodings.
// Windows exports are the usual culprit.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}
	return buf.Bytes()
}
