package web

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/openconf/cfp-admin/internal/importer"
	"github.com/openconf/cfp-admin/internal/logging"
	"github.com/openconf/cfp-admin/internal/store"
)

// handleImport runs the import pipeline on an uploaded export file.
//
// Multipart form fields:
//
//	file            — the export (CSV or JSON), required
//	conference_id   — target conference UUID, required
//	imported_by     — UUID of the user owning the imported records, optional
//	skip_duplicates — "true" to suppress candidates already in the store
//
// The import runs synchronously inside one store session; the response
// is the JSON ImportResult. A fatal parse error rolls the session back,
// so no partial import is ever visible.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondBadRequest(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "no file provided")
		return
	}
	defer file.Close()

	conferenceID, err := uuid.Parse(r.FormValue("conference_id"))
	if err != nil {
		respondBadRequest(w, "missing or invalid conference_id")
		return
	}

	// The owner of imported records is caller-supplied, never a baked-in
	// identity.
	var importedBy uuid.UUID
	if v := r.FormValue("imported_by"); v != "" {
		importedBy, err = uuid.Parse(v)
		if err != nil {
			respondBadRequest(w, "invalid imported_by")
			return
		}
	}

	skipDuplicates := false
	if v := r.FormValue("skip_duplicates"); v != "" {
		skipDuplicates, err = strconv.ParseBool(v)
		if err != nil {
			respondBadRequest(w, "invalid skip_duplicates")
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	session, err := s.store.Begin(ctx)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer session.Rollback(ctx)

	log := logging.FromContext(r.Context())
	log.Info("import started",
		"file", header.Filename,
		"size", header.Size,
		"conference_id", conferenceID,
		"skip_duplicates", skipDuplicates,
	)

	result, err := importer.New(session).Import(ctx, data,
		importer.Target{ConferenceID: conferenceID, OwnerID: importedBy},
		importer.Options{SkipDuplicates: skipDuplicates},
	)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	entry := store.ImportLogEntry{
		ID:           uuid.MustParse(result.ImportID),
		ConferenceID: conferenceID,
		ImportedBy:   importedBy,
		FileName:     header.Filename,
		Format:       string(result.Format),
		Imported:     result.Imported,
		Skipped:      result.Skipped,
		RowErrors:    len(result.RowErrors),
	}
	if err := session.RecordImport(ctx, entry); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if err := session.Commit(ctx); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

// handleListImports returns the recent import log.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListImports(r.Context(), s.cfg.Import.HistoryLimit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.ImportLogEntry{}
	}
	writeJSON(w, entries)
}

// handleListFormats lists the supported export formats and their headers,
// which doubles as template data for operators building an export.
func (s *Server) handleListFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, importer.Formats())
}

// handleHealth reports liveness and store connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondErrorJSON(w, http.StatusServiceUnavailable, "SYS002", "store unreachable", "")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
