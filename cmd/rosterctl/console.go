package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gymroster/internal/adapters/perf"
	"gymroster/internal/adapters/report"
	"gymroster/internal/application/roster"
	"gymroster/internal/domain/audit"
	"gymroster/internal/domain/member"
)

// dashboardRecent is how many members `recent` shows.
const dashboardRecent = 4

const helpText = `commands:
  list                       show the filtered roster
  search [text]              filter by name or email (no text clears)
  add name|email|YYYY-MM-DD  create a member
  edit <id>                  load a member into the form
  save name|email|YYYY-MM-DD submit the form (updates while editing)
  cancel                     discard the current edit
  rm <id>                    delete a member
  stats                      total, active and expired counts
  recent                     the first members on the roster
  report [-html]             print the membership report
  remind                     email renewal reminders to expired members
  history <id>               who changed a member and when
  perf                       gateway call timings
  reload                     refetch the roster
  help                       this text
  quit                       exit`

// errQuit ends the session.
var errQuit = errors.New("quit")

// Server is the set of server-side operations beyond the roster Gateway.
type Server interface {
	SendReminders(ctx context.Context) (int, error)
	History(ctx context.Context, memberID string) ([]audit.Event, error)
}

// console is the interactive member console over one roster Store.
type console struct {
	in        *bufio.Scanner
	out       *bufio.Writer
	store     *roster.Store
	server    Server
	collector *perf.Collector
	now       func() time.Time
}

func newConsole(in io.Reader, out io.Writer) *console {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)
	return &console{
		in:  scanner,
		out: bufio.NewWriter(out),
		now: time.Now,
	}
}

// onEvent is the Store listener.
func (c *console) onEvent(e roster.Event) {
	if e.Kind == roster.EventScrollToTop {
		c.say("== editing %s ==", e.MemberID)
	}
}

func (c *console) say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// run reads commands until quit or EOF.
func (c *console) run(ctx context.Context) error {
	defer c.out.Flush()
	c.say("gymroster console, %d members loaded. Type 'help' for commands.", len(c.store.Members()))
	for {
		fmt.Fprint(c.out, c.prompt())
		c.out.Flush()
		if !c.in.Scan() {
			return c.in.Err()
		}
		err := c.exec(ctx, strings.TrimSpace(c.in.Text()))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.say("error: %v", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *console) prompt() string {
	if m, ok := c.store.Editing(); ok {
		return fmt.Sprintf("roster (editing %s)> ", m.ID)
	}
	return "roster> "
}

// exec runs one command line.
func (c *console) exec(ctx context.Context, line string) error {
	if line == "" {
		return nil
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help", "?":
		c.say("%s", helpText)
	case "quit", "exit":
		return errQuit
	case "list", "ls":
		c.printFilter()
		c.printRows(c.store.Rows(c.now()))
	case "search":
		c.store.Search(arg)
		c.printFilter()
		c.printRows(c.store.Rows(c.now()))
	case "add":
		if m, ok := c.store.Editing(); ok {
			return fmt.Errorf("editing %s; use save or cancel", m.ID)
		}
		return c.submit(ctx, arg)
	case "save":
		return c.submit(ctx, arg)
	case "edit":
		m, err := c.store.BeginEdit(arg)
		if err != nil {
			return err
		}
		c.say("%s", formatDraft(m.Draft()))
	case "cancel":
		c.store.CancelEdit()
		c.say("edit cancelled")
	case "rm", "delete":
		if arg == "" {
			return errors.New("usage: rm <id>")
		}
		if err := c.store.Remove(ctx, arg); err != nil {
			return err
		}
		c.say("removed %s", arg)
	case "stats":
		s := c.store.Summary(c.now())
		c.say("Total Members:   %d", s.Total)
		c.say("Active Members:  %d", s.Active)
		c.say("Expired Members: %d", s.Expired)
	case "recent":
		now := c.now()
		rows := make([]roster.Row, 0, dashboardRecent)
		for _, m := range c.store.Recent(dashboardRecent) {
			rows = append(rows, roster.Row{Member: m, Status: member.Classify(m, now)})
		}
		c.printRows(rows)
	case "report":
		return c.report(arg == "-html")
	case "remind":
		if c.server == nil {
			return errors.New("reminders are not available")
		}
		n, err := c.server.SendReminders(ctx)
		if err != nil {
			return err
		}
		c.say("sent %d reminder(s)", n)
	case "history":
		return c.history(ctx, arg)
	case "perf":
		c.printPerf()
	case "reload":
		c.load(ctx)
		c.say("%d members loaded", len(c.store.Members()))
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

// load refetches the roster. A failure keeps the current roster and is left to the
// store's Reporter; the session carries on.
func (c *console) load(ctx context.Context) {
	_ = c.store.Load(ctx)
}

func (c *console) submit(ctx context.Context, arg string) error {
	draft, err := parseDraft(arg)
	if err != nil {
		return err
	}
	m, err := c.store.Submit(ctx, draft)
	if err != nil {
		return err
	}
	c.say("saved %s (%s)", m.ID, m.Name)
	return nil
}

// report prints the markdown report, or its HTML rendering.
func (c *console) report(html bool) error {
	now := c.now()
	md := report.Markdown(c.store.Summary(now), c.store.Rows(now), c.store.Query(), now)
	if !html {
		c.say("%s", md)
		return nil
	}
	out, err := report.HTML(md)
	if err != nil {
		return err
	}
	c.say("%s", out)
	return nil
}

func (c *console) printFilter() {
	if q := c.store.Query(); q != "" {
		c.say("filter: %q", q)
	}
}

func (c *console) printRows(rows []roster.Row) {
	if len(rows) == 0 {
		c.say("(no members)")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tJOINED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Member.ID, r.Member.Name, r.Member.Email, r.Status, member.FormatDate(r.Member.MembershipDate))
	}
	tw.Flush()
}

func (c *console) history(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("usage: history <id>")
	}
	if c.server == nil {
		return errors.New("history is not available")
	}
	events, err := c.server.History(ctx, id)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		c.say("no history for %s", id)
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTION\tBY\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, e.ActorEmail, e.Description)
	}
	return tw.Flush()
}

func (c *console) printPerf() {
	if c.collector == nil {
		c.say("perf collection disabled")
		return
	}
	snap := c.collector.Snapshot(time.Time{}, 10)
	if len(snap.GatewayCalls) == 0 {
		c.say("no gateway calls yet")
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OP\tCALLS\tFAILED\tAVG_MS\tMAX_MS")
	for _, s := range snap.GatewayCalls {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", s.Path, s.Count, s.Failures, ms(s.AvgMs), ms(s.MaxMs))
	}
	tw.Flush()
}

func ms(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// parseDraft reads "name|email|YYYY-MM-DD".
func parseDraft(arg string) (member.Draft, error) {
	parts := strings.Split(arg, "|")
	if len(parts) != 3 {
		return member.Draft{}, errors.New("expected name|email|YYYY-MM-DD")
	}
	name := strings.TrimSpace(parts[0])
	email := strings.TrimSpace(parts[1])
	date, err := member.ParseDate(strings.TrimSpace(parts[2]))
	if err != nil {
		return member.Draft{}, err
	}
	return member.Draft{Name: name, Email: email, MembershipDate: date}, nil
}

func formatDraft(d member.Draft) string {
	return fmt.Sprintf("%s|%s|%s", d.Name, d.Email, member.FormatDate(d.MembershipDate))
}
