// Package report renders human-readable run output.
package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/postarr/internal/library"
	"github.com/vmunix/postarr/internal/posters"
	"github.com/vmunix/postarr/internal/resolver"
	"github.com/vmunix/postarr/pkg/title"
)

var (
	colorSuccess = lipgloss.Color("#2ecc71")
	colorWarning = lipgloss.Color("#f39c12")
	colorError   = lipgloss.Color("#ef233c")
	colorMuted   = lipgloss.Color("#8d99ae")
)

// Printer writes styled lines to w. Color is dropped when w is not a terminal.
type Printer struct {
	w       io.Writer
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	errorS  lipgloss.Style
	muted   lipgloss.Style
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		errorS:  r.NewStyle().Foreground(colorError).Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Header prints a bold section line.
func (p *Printer) Header(format string, args ...any) {
	fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf(format, args...)))
}

// PosterResult prints one line for a processed folder.
func (p *Printer) PosterResult(r posters.Result) {
	name := filepath.Base(r.Folder)

	switch r.Status {
	case posters.StatusDownloaded:
		detail := ""
		if r.Match != nil {
			detail = fmt.Sprintf("%s (%s, tmdb %d)", r.Match.Result.DisplayTitle(), r.Match.Kind, r.Match.Result.ID)
			if r.Match.Fallback {
				detail += " via fallback " + fmt.Sprintf("%q", r.Match.Query)
			}
		}
		fmt.Fprintf(p.w, "%s %s %s\n", p.success.Render("OK  "), name, p.muted.Render(detail))
	case posters.StatusWouldDownload:
		fmt.Fprintf(p.w, "%s %s %s\n", p.success.Render("DRY "), name, p.muted.Render(r.URL))
	case posters.StatusSkipped:
		fmt.Fprintf(p.w, "%s %s %s\n", p.muted.Render("SKIP"), name, p.muted.Render("poster exists"))
	case posters.StatusNotFound:
		fmt.Fprintf(p.w, "%s %s %s\n", p.warning.Render("MISS"), name, p.muted.Render(fmt.Sprintf("could not find %q", r.Title)))
	case posters.StatusNoPoster:
		fmt.Fprintf(p.w, "%s %s %s\n", p.warning.Render("NONE"), name, p.muted.Render("no poster on TMDB"))
	default:
		fmt.Fprintf(p.w, "%s %s %s\n", p.errorS.Render("FAIL"), name, p.muted.Render(errString(r.Err)))
	}
}

// PosterSummary prints totals for a poster run.
func (p *Printer) PosterSummary(s posters.Stats) {
	fmt.Fprintln(p.w)
	p.Header("Done: %d folders", s.Folders)
	fmt.Fprintf(p.w, "  %s %d\n", p.success.Render("downloaded:"), s.Downloaded)
	if s.WouldDownload > 0 {
		fmt.Fprintf(p.w, "  %s %d\n", p.success.Render("would download:"), s.WouldDownload)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(p.w, "  %s %d\n", p.muted.Render("skipped:"), s.Skipped)
	}
	fmt.Fprintf(p.w, "  %s %d\n", p.warning.Render("not found:"), s.NotFound)
	if s.NoPoster > 0 {
		fmt.Fprintf(p.w, "  %s %d\n", p.warning.Render("no poster:"), s.NoPoster)
	}
	fmt.Fprintf(p.w, "  %s %d\n", p.errorS.Render("failed:"), s.Failed)
}

// PruneSummary prints totals for a prune run.
func (p *Printer) PruneSummary(s library.PruneStats, dryRun bool) {
	verb := "deleted"
	if dryRun {
		verb = "would delete"
	}
	fmt.Fprintln(p.w)
	p.Header("Clean-up complete: %d folders", s.Folders)
	fmt.Fprintf(p.w, "  %s %d files (%s)\n", p.success.Render(verb+":"), s.Deleted, FormatBytes(s.Bytes))
	if s.Failed > 0 {
		fmt.Fprintf(p.w, "  %s %d\n", p.errorS.Render("failed:"), s.Failed)
	}
}

// TitleInfo prints what a folder name cleans to.
func (p *Printer) TitleInfo(info title.Info) {
	fmt.Fprintf(p.w, "Folder:      %s\n", info.Raw)
	fmt.Fprintf(p.w, "Clean title: %s\n", p.title.Render(info.Clean))
	if info.Year != 0 {
		fmt.Fprintf(p.w, "Year:        %d\n", info.Year)
	}
	fmt.Fprintf(p.w, "Fallback:    %s\n", info.Fallback)
}

// Match prints a resolver match.
func (p *Printer) Match(m *resolver.Match) {
	fmt.Fprintf(p.w, "Match:       %s\n", p.success.Render(m.Result.DisplayTitle()))
	fmt.Fprintf(p.w, "TMDB:        %s/%d\n", m.Kind, m.Result.ID)
	if d := m.Result.Date(); d != "" {
		fmt.Fprintf(p.w, "Date:        %s\n", d)
	}
	fmt.Fprintf(p.w, "Query:       %s", m.Query)
	if m.Fallback {
		fmt.Fprint(p.w, p.warning.Render(" (fallback)"))
	}
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "Similarity:  %.2f\n", m.Similarity)
}

// NoMatch prints a resolver miss.
func (p *Printer) NoMatch(err error) {
	fmt.Fprintf(p.w, "Match:       %s\n", p.warning.Render(errString(err)))
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// FormatBytes formats a byte count for display.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
