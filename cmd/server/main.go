package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "gymroster/internal/adapters/email"
	web "gymroster/internal/adapters/http"
	"gymroster/internal/adapters/perf"
	"gymroster/internal/adapters/storage"
	accountStore "gymroster/internal/adapters/storage/account"
	auditStore "gymroster/internal/adapters/storage/audit"
	memberStore "gymroster/internal/adapters/storage/member"
	"gymroster/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	slog.SetLogLoggerLevel(logLevel(os.Getenv("GYMROSTER_LOG_LEVEL")))
	production := envOrDefault("GYMROSTER_ENV", "development") == "production"

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("GYMROSTER_DB", "gymroster.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		MemberStore:  memberStore.NewSQLiteStore(timedDB),
		AuditStore:   auditStore.NewSQLiteStore(timedDB),
	}

	// Seed the first admin account if none exist
	adminEmail := os.Getenv("GYMROSTER_ADMIN_EMAIL")
	adminPassword := os.Getenv("GYMROSTER_ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
		if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
	}

	// Open signup is a development convenience; production relies on the seeded admin
	web.AllowSignup = envBool("GYMROSTER_ALLOW_SIGNUP", !production)
	web.RateLimitPerSecond = envInt("GYMROSTER_RATE_LIMIT", web.RateLimitPerSecond)

	// Configure email sender
	resendKey := os.Getenv("GYMROSTER_RESEND_KEY")
	emailFrom := envOrDefault("GYMROSTER_RESEND_FROM", "Gym Roster <noreply@example.com>")
	emailReply := os.Getenv("GYMROSTER_REPLY_TO")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if production {
			log.Println("WARNING: GYMROSTER_RESEND_KEY is not set, renewal reminders will not be delivered")
		} else {
			log.Println("Email sender configured (noop, set GYMROSTER_RESEND_KEY for real delivery)")
		}
	}

	addr := envOrDefault("GYMROSTER_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           web.NewMux(stores, collector),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("gymroster %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("GYMROSTER_ENV", "development"), storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

// logLevel maps GYMROSTER_LOG_LEVEL to a slog level; unknown values mean info.
func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
