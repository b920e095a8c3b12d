package web

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"gymroster/internal/adapters/http/middleware"
	auditStore "gymroster/internal/adapters/storage/audit"
	"gymroster/internal/domain/audit"
)

// recordAudit logs an action by the authenticated caller.
// Audit failures are logged and never fail the request.
func recordAudit(r *http.Request, category audit.Category, action audit.Action, resourceID, desc string) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		return
	}
	saveAudit(r, audit.NewEvent(sess.AccountID, sess.Email, category, action, timeNow()).
		WithResource(resourceID).
		WithDescription(desc))
}

// saveAudit stamps the client address and persists e.
func saveAudit(r *http.Request, e audit.Event) {
	if stores == nil || stores.AuditStore == nil {
		return
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if err := stores.AuditStore.Save(r.Context(), e.WithIP(ip)); err != nil {
		slog.Error("audit_event", "event", "save_failed", "action", e.Action, "error", err)
	}
}

// handleAudit handles GET /api/audit?member=<id>&limit=<n>
func handleAudit(w http.ResponseWriter, r *http.Request) {
	if stores.AuditStore == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "audit log disabled"})
		return
	}
	filter := auditStore.Filter{}
	if id := r.URL.Query().Get("member"); id != "" {
		filter.Category = audit.CategoryMember
		filter.ResourceID = id
	}
	limit := auditStore.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			badRequest(w, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
