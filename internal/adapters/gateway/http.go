package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gymroster/internal/adapters/perf"
	"gymroster/internal/application/roster"
	"gymroster/internal/domain/audit"
	"gymroster/internal/domain/member"
)

// DefaultTimeout bounds every request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// ErrNoToken is returned when a member call is made before Login or SetToken.
var ErrNoToken = errors.New("gateway: not authenticated")

// StatusError is a non-2xx response from the member API.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Message)
}

// HTTPGateway talks to the member API over JSON.
type HTTPGateway struct {
	base      string
	hc        *http.Client
	collector *perf.Collector

	mu    sync.RWMutex
	token string
}

var _ roster.Gateway = (*HTTPGateway)(nil)

// New creates a gateway for the API at baseURL (e.g. "http://localhost:8080").
// PRE: baseURL is an absolute http(s) URL
// POST: Returns an unauthenticated gateway; collector may be nil
func New(baseURL string, hc *http.Client, collector *perf.Collector) (*HTTPGateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base URL %q", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPGateway{
		base:      strings.TrimRight(baseURL, "/"),
		hc:        hc,
		collector: collector,
	}, nil
}

// SetToken installs a bearer token obtained elsewhere.
func (g *HTTPGateway) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

// Token returns the current bearer token.
func (g *HTTPGateway) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

type wireMember struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MembershipDate string `json:"membershipDate"`
}

func toWire(d member.Draft) wireMember {
	return wireMember{Name: d.Name, Email: d.Email, MembershipDate: member.FormatDate(d.MembershipDate)}
}

func (w wireMember) member() (member.Member, error) {
	date, err := member.ParseDate(w.MembershipDate)
	if err != nil {
		return member.Member{}, fmt.Errorf("member %s: %w", w.ID, err)
	}
	if w.ID == "" {
		return member.Member{}, errors.New("member without id")
	}
	return member.Member{ID: w.ID, Name: w.Name, Email: w.Email, MembershipDate: date}, nil
}

// Login exchanges credentials for a bearer token and installs it.
// PRE: email and password are non-empty
// POST: Token is set on success
func (g *HTTPGateway) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := g.do(ctx, "gateway.login", http.MethodPost, "/api/auth/login", false, body, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("gateway.login: empty token")
	}
	g.SetToken(out.Token)
	slog.Info("auth_event", "event", "gateway_login", "email", email)
	return nil
}

// List fetches the full roster.
func (g *HTTPGateway) List(ctx context.Context) ([]member.Member, error) {
	var out []wireMember
	if err := g.do(ctx, "gateway.list", http.MethodGet, "/api/members", true, nil, &out); err != nil {
		return nil, err
	}
	members := make([]member.Member, 0, len(out))
	for _, w := range out {
		m, err := w.member()
		if err != nil {
			return nil, fmt.Errorf("gateway.list: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}

// Create posts a draft and returns the stored member.
func (g *HTTPGateway) Create(ctx context.Context, draft member.Draft) (member.Member, error) {
	var out wireMember
	if err := g.do(ctx, "gateway.create", http.MethodPost, "/api/members", true, toWire(draft), &out); err != nil {
		return member.Member{}, err
	}
	return out.member()
}

// Update replaces the member with id.
func (g *HTTPGateway) Update(ctx context.Context, id string, draft member.Draft) (member.Member, error) {
	var out wireMember
	if err := g.do(ctx, "gateway.update", http.MethodPut, "/api/members/"+url.PathEscape(id), true, toWire(draft), &out); err != nil {
		return member.Member{}, err
	}
	return out.member()
}

// Delete removes the member with id.
func (g *HTTPGateway) Delete(ctx context.Context, id string) error {
	return g.do(ctx, "gateway.delete", http.MethodDelete, "/api/members/"+url.PathEscape(id), true, nil, nil)
}

// SendReminders asks the server to email every expired member.
// POST: Returns how many reminders the server sent
func (g *HTTPGateway) SendReminders(ctx context.Context) (int, error) {
	var out struct {
		Sent int `json:"sent"`
	}
	if err := g.do(ctx, "gateway.reminders", http.MethodPost, "/api/members/reminders", true, nil, &out); err != nil {
		return 0, err
	}
	return out.Sent, nil
}

// History fetches the audit trail of one member, newest first.
func (g *HTTPGateway) History(ctx context.Context, memberID string) ([]audit.Event, error) {
	var out []audit.Event
	path := "/api/audit?member=" + url.QueryEscape(memberID)
	if err := g.do(ctx, "gateway.history", http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServerPerf fetches the server's perf snapshot.
func (g *HTTPGateway) ServerPerf(ctx context.Context) (perf.Snapshot, error) {
	var out perf.Snapshot
	err := g.do(ctx, "gateway.perf", http.MethodGet, "/api/perf", true, nil, &out)
	return out, err
}

// do performs one JSON round trip and records its timing.
// Non-2xx responses become *StatusError carrying the server's error message.
func (g *HTTPGateway) do(ctx context.Context, op, method, path string, auth bool, body, out any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		g.record(op, status, start)
		if err != nil {
			slog.Debug("gateway_call_failed", "op", op, "status", status, "error", err)
		}
	}()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := g.Token()
		if token == "" {
			return fmt.Errorf("%s: %w", op, ErrNoToken)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &StatusError{Op: op, Code: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (g *HTTPGateway) record(op string, status int, start time.Time) {
	if g.collector == nil {
		return
	}
	g.collector.Record(perf.Entry{
		Kind:       perf.KindGateway,
		Path:       op,
		StatusCode: status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}
