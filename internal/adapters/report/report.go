package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymroster/internal/application/roster"
	"gymroster/internal/domain/member"
)

// mdRenderer converts report and reminder markdown to HTML.
// Raw HTML in the input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown renders the roster summary followed by one table row per member.
// Counts cover the whole roster; rows are the search view for query.
// PRE: summary and rows were computed from the same reference instant
// POST: Returns a GitHub-flavoured markdown document; a non-empty query is stated
// in the header with the number of matching rows
func Markdown(summary roster.Summary, rows []roster.Row, query string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Membership report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", now.UTC().Format(time.RFC3339))
	if query != "" {
		fmt.Fprintf(&b, "Filtered by search \"%s\": %d of %d members shown.\n\n", Escape(query), len(rows), summary.Total)
	}
	fmt.Fprintf(&b, "- **Total Members:** %d\n", summary.Total)
	fmt.Fprintf(&b, "- **Active Members:** %d\n", summary.Active)
	fmt.Fprintf(&b, "- **Expired Members:** %d\n\n", summary.Expired)

	if len(rows) == 0 {
		if query != "" {
			b.WriteString("_No matching members._\n")
			return b.String()
		}
		b.WriteString("_No members._\n")
		return b.String()
	}

	b.WriteString("| Name | Email | Status | Joined |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			cell(r.Member.Name),
			cell(r.Member.Email),
			r.Status,
			member.FormatDate(r.Member.MembershipDate),
		)
	}
	return b.String()
}

// markup lists the characters that can open emphasis, links, code, entities or a
// table cell boundary inside inline text.
const markup = "\\`*_[](){}#!|<>~&"

// Escape backslash-escapes markdown markup so user-supplied text renders literally.
// Plain names and emails ("Mary-Jane", "a.b@c.com") pass through unchanged.
func Escape(s string) string {
	if !strings.ContainsAny(s, markup) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markup, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cell escapes text for a single table cell.
func cell(s string) string {
	return strings.ReplaceAll(Escape(s), "\n", " ")
}

// HTML converts markdown to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
