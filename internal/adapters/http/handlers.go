package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gymroster/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	middleware.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
}

// badRequest reports a client error with its message.
func badRequest(w http.ResponseWriter, msg string) {
	middleware.WriteJSONError(w, http.StatusBadRequest, msg)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_failed", "error", err)
	}
}

// handleHealth handles GET /healthz
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
