package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"gymroster/internal/adapters/gateway"
	"gymroster/internal/adapters/perf"
	"gymroster/internal/application/roster"
)

func main() {
	var (
		api      string
		token    string
		email    string
		password string
		logLevel string
	)

	flag.StringVar(&api, "api", envOrDefault("GYMROSTER_API", "http://localhost:8080"), "member API base URL")
	flag.StringVar(&token, "token", os.Getenv("GYMROSTER_TOKEN"), "bearer token (skips login)")
	flag.StringVar(&email, "email", os.Getenv("GYMROSTER_EMAIL"), "admin email for login")
	flag.StringVar(&password, "password", os.Getenv("GYMROSTER_PASSWORD"), "admin password for login")
	flag.StringVar(&logLevel, "log-level", envOrDefault("GYMROSTER_LOG_LEVEL", "warn"), "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		fail(fmt.Errorf("invalid -log-level %q", logLevel))
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := perf.NewCollector(1000)
	gw, err := gateway.New(api, nil, collector)
	if err != nil {
		fail(err)
	}

	switch {
	case token != "":
		gw.SetToken(token)
	case email != "" && password != "":
		if err := gw.Login(ctx, email, password); err != nil {
			fail(err)
		}
	default:
		fail(fmt.Errorf("set -token, or -email and -password"))
	}

	c := newConsole(os.Stdin, os.Stdout)
	c.server = gw
	c.collector = collector
	c.store = roster.NewStore(roster.Deps{
		Gateway:  gw,
		Listener: c.onEvent,
	})

	c.load(ctx)
	if err := c.run(ctx); err != nil && ctx.Err() == nil {
		fail(err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "rosterctl:", err)
	os.Exit(1)
}
