package web

import (
	"net/http"
	"time"

	"gymroster/internal/adapters/email"
	"gymroster/internal/adapters/http/middleware"
	"gymroster/internal/adapters/perf"
	accountStore "gymroster/internal/adapters/storage/account"
	auditStore "gymroster/internal/adapters/storage/audit"
	memberStore "gymroster/internal/adapters/storage/member"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	MemberStore  memberStore.Store
	AuditStore   auditStore.Store // optional; nil disables the audit log
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender = email.NewNoopSender()

// Email configuration
var emailFromAddress string
var emailReplyTo string

// AllowSignup controls whether POST /api/auth/signup is open.
var AllowSignup = true

// SetEmailSender sets the sender used for renewal reminders.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// NewMux wires HTTP handlers for the member API.
func NewMux(s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// registerRoutes maps every endpoint. Member routes require a bearer token.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("POST /api/auth/signup", handleSignup)
	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.HandleFunc("POST /api/auth/logout", handleLogout)

	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(h))
	}
	protect("GET /api/members", handleListMembers)
	protect("POST /api/members", handleCreateMember)
	protect("GET /api/members/summary", handleMemberSummary)
	protect("POST /api/members/reminders", handleSendReminders)
	protect("GET /api/members/{id}", handleGetMember)
	protect("PUT /api/members/{id}", handleUpdateMember)
	protect("DELETE /api/members/{id}", handleDeleteMember)
	protect("GET /api/perf", handlePerf)
	protect("GET /api/audit", handleAudit)
}
