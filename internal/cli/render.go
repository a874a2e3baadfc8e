package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	scoreBox     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1).
			Align(lipgloss.Center)
	severityStyles = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

// renderResultSet writes the full terminal view of one assessment: header,
// scores, risks, recommendations, notes, then the two markdown documents.
func renderResultSet(w io.Writer, set results.ResultSet) {
	a := set.Assessment

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%s)", a.Company, a.Industry)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("assessment %s · %s", a.ID, a.CreatedAt.Format("2006-01-02 15:04"))))
	fmt.Fprintln(w)

	renderScores(w, a.Result.Scores)

	if risks := a.Result.Risks; len(risks) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Risks"))
		for _, r := range risks {
			severity := r.Severity
			if style, ok := severityStyles[severity]; ok {
				severity = style.Render(severity)
			}
			fmt.Fprintf(w, "  [%s] %s — %s\n", severity, r.Type, r.Signal)
			if r.Why != "" {
				fmt.Fprintf(w, "         %s\n", mutedStyle.Render(r.Why))
			}
		}
	}

	if recs := a.Result.Recommendations; len(recs) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Recommendations"))
		for _, rec := range recs {
			fmt.Fprintf(w, "  %s\n", titleStyle.Render(rec.Title))
			if rec.Why != "" {
				fmt.Fprintf(w, "    %s\n", rec.Why)
			}
			for _, action := range rec.Actions {
				fmt.Fprintf(w, "    - %s\n", action)
			}
		}
	}

	if kpis := a.Result.KPIs; len(kpis) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("KPIs"))
		names := make([]string, 0, len(kpis))
		for name := range kpis {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-32s %s\n", name, formatKPI(kpis[name]))
		}
	}

	if notes := a.Result.Notes; len(notes) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Notes"))
		for _, note := range notes {
			fmt.Fprintf(w, "  %s\n", mutedStyle.Render(note))
		}
	}

	if set.ReportMD != "" {
		fmt.Fprintln(w, sectionStyle.Render("Report"))
		fmt.Fprintln(w, renderMarkdown(set.ReportMD))
	} else {
		fmt.Fprintln(w, mutedStyle.Render("Report not available."))
	}

	if set.AIMD != "" {
		fmt.Fprintln(w, sectionStyle.Render("AI narrative"))
		fmt.Fprintln(w, renderMarkdown(set.AIMD))
	}
}

// renderScores draws the headline score boxes, or a placeholder when the
// backend returned no scoring block.
func renderScores(w io.Writer, scores *gateway.Scores) {
	if scores == nil {
		fmt.Fprintln(w, mutedStyle.Render("No scores available."))
		return
	}

	boxes := []string{
		scoreBox.Render(fmt.Sprintf("Health\n%d", scores.HealthScore)),
		scoreBox.Render(fmt.Sprintf("Credit\n%d", scores.CreditReadinessScore)),
		scoreBox.Render(fmt.Sprintf("Risk\n%d", scores.RiskScore)),
		scoreBox.Render(fmt.Sprintf("Rating\n%s", scores.Rating)),
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
}

// renderHistory prints the local history list, newest first.
func renderHistory(w io.Writer, entries []history.AssessmentSummary) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No assessments yet. Run `finhealth submit` to create one."))
		return
	}

	fmt.Fprintf(w, "%-38s %-24s %-14s %s\n", "ID", "COMPANY", "INDUSTRY", "CREATED")
	for _, e := range entries {
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-38s %-24s %-14s %s\n", e.ID, truncate(e.Company, 24), truncate(e.Industry, 14), created)
	}
}

// renderMarkdown renders md for the terminal, falling back to the raw text
// when the renderer cannot be built (e.g. no TTY information).
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func formatKPI(v any) string {
	switch value := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", value)
	case map[string]any:
		// Nested blocks (ar, ap, inventory) get a compact one-line summary.
		parts := make([]string, 0, len(value))
		names := make([]string, 0, len(value))
		for name := range value {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%v", name, value[name]))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", value)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
