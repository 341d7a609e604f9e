package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/grading"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
	badStyle           = lipgloss.NewStyle().Foreground(danger)
	goodStyle          = lipgloss.NewStyle().Foreground(success)
)

// SeverityFunc resolves the effective severity of a rule.
type SeverityFunc func(rules.Rule) domain.Severity

// RenderRules lists rules grouped by category in report order.
func RenderRules(list []rules.Rule, severity SeverityFunc) string {
	var b strings.Builder

	byCat := make(map[domain.Category][]rules.Rule)
	for _, r := range list {
		byCat[r.Category] = append(byCat[r.Category], r)
	}

	for _, cat := range domain.ValidCategories {
		rs := byCat[cat]
		if len(rs) == 0 {
			continue
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render(string(cat)),
			dimStyle.Render(fmt.Sprintf("(%d)", len(rs))),
		)
		for _, r := range rs {
			line := fmt.Sprintf("    %s %s %s",
				ruleIDStyle.Render(padRight(r.ID, 7)),
				severityTag(severity(r)),
				r.Title,
			)
			if r.Custom {
				line += "  " + faintStyle.Render("custom")
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString("  " + hintStyle.Render("Run `apigrade rules show <ID>` for rationale and examples."))
	b.WriteString("\n")
	return b.String()
}

// RenderRule prints one rule with its rationale, fix and examples.
func RenderRule(r rules.Rule, severity domain.Severity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n  %s  %s\n", titleStyle.Render(r.ID), titleStyle.Render(r.Title))
	fmt.Fprintf(&b, "  %s %s  %s %s\n",
		dimStyle.Render("category"), string(r.Category),
		dimStyle.Render("severity"), severityTag(severity),
	)
	for _, v := range domain.ValidVisibilities {
		if sev, ok := r.Overrides[v]; ok {
			fmt.Fprintf(&b, "  %s\n", faintStyle.Render(fmt.Sprintf("%s APIs: %s", v, sev)))
		}
	}

	b.WriteString("\n")
	renderSection(&b, "Why", r.Rationale, lipgloss.NewStyle())
	renderSection(&b, "Fix", r.Fix, lipgloss.NewStyle())
	renderSection(&b, "Bad", r.Bad, badStyle)
	renderSection(&b, "Good", r.Good, goodStyle)
	return b.String()
}

func renderSection(b *strings.Builder, title, body string, style lipgloss.Style) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "  %s\n", sectionHeaderStyle.Render(title))
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(b, "    %s\n", style.Render(line))
	}
	b.WriteString("\n")
}

// RenderRubric prints the grading rubric table.
func RenderRubric() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Grading rubric") + "\n\n")
	for _, row := range grading.Rubric {
		grade := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(row.Grade)).Render(row.Grade)
		fmt.Fprintf(&b, "    %s  %s\n", grade, row.Condition)
	}
	b.WriteString("\n  " + hintStyle.Render(grading.RubricNote) + "\n")
	return b.String()
}
