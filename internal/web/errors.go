package web

// errors.go gives the API one error envelope. Technical detail goes to
// the server log with the request ID; the client gets the user-facing
// message and support code from importer.MapError.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openconf/cfp-admin/internal/importer"
	"github.com/openconf/cfp-admin/internal/logging"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs err and writes its user-facing rendering.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := importer.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	)

	respondErrorJSON(w, statusCode, msg.Code, msg.Message, msg.Action)
}

func respondErrorJSON(w http.ResponseWriter, statusCode int, code, message, action string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Action: action, Code: code})
}

// respondBadRequest writes a request-shape error that never reaches the
// pipeline (missing file, bad form values).
func respondBadRequest(w http.ResponseWriter, message string) {
	respondErrorJSON(w, http.StatusBadRequest, "REQ001", message, "")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Error("json encode error", "error", err)
	}
}
