package export

import (
	"fmt"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
)

var severitySections = []struct {
	sev   domain.Severity
	title string
}{
	{sev: domain.SeverityCritical, title: "Critical Issues"},
	{sev: domain.SeverityWarning, title: "Warnings"},
	{sev: domain.SeveritySuggestion, title: "Suggestions"},
}

// Markdown renders the review document: grade, summary table, then findings
// grouped by severity.
func Markdown(r *domain.Report) string {
	var b strings.Builder

	name := r.Title
	if name == "" {
		name = r.Source
	}
	fmt.Fprintf(&b, "## API Design Review: %s\n\n", mdEscape(name))
	fmt.Fprintf(&b, "### Grade: %s (%d/100)\n\n", r.Grade, r.Score)

	fmt.Fprintf(&b, "- **Source:** `%s` (%s)\n", r.Source, r.Format)
	if r.Version != "" {
		fmt.Fprintf(&b, "- **Version:** %s\n", mdEscape(r.Version))
	}
	fmt.Fprintf(&b, "- **Visibility:** %s\n", r.Visibility)
	fmt.Fprintf(&b, "- **Endpoints:** %d\n", r.Endpoints)
	if r.CommitHash != "" {
		fmt.Fprintf(&b, "- **Commit:** `%s`\n", shortHash(r.CommitHash))
	}
	b.WriteString("\n")

	b.WriteString("### Summary\n\n")
	b.WriteString("| Category | Critical | Warnings | Suggestions |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, cat := range r.Categories {
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", cat.Name, cat.Counts.Critical, cat.Counts.Warning, cat.Counts.Suggestion)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%d** | **%d** |\n\n", r.Counts.Critical, r.Counts.Warning, r.Counts.Suggestion)

	if len(r.Findings) == 0 {
		b.WriteString("No findings.\n")
		return b.String()
	}

	for _, sec := range severitySections {
		var fs []domain.Finding
		for _, f := range r.Findings {
			if f.Severity == sec.sev {
				fs = append(fs, f)
			}
		}
		if len(fs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", sec.title)
		for i, f := range fs {
			fmt.Fprintf(&b, "%d. **[%s] `%s`** %s\n", i+1, f.RuleID, f.Location.String(), mdEscape(f.Message))
			if f.Fix != "" {
				fmt.Fprintf(&b, "   - Fix: %s\n", mdEscape(f.Fix))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MarkdownAll joins the reviews of several reports with horizontal rules.
func MarkdownAll(reports ...*domain.Report) string {
	parts := make([]string, 0, len(reports))
	for _, r := range reports {
		parts = append(parts, Markdown(r))
	}
	return strings.Join(parts, "\n---\n\n")
}

var mdReplacer = strings.NewReplacer("|", `\|`, "<", "&lt;", ">", "&gt;")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
