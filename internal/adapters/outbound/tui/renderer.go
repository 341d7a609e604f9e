package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/apigrade/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A": success,
		"B": lipgloss.Color("#A3E635"), // lime
		"C": warning,
		"D": lipgloss.Color("#FB923C"), // orange
		"F": danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	critTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	hintTagStyle  = lipgloss.NewStyle().Foreground(info)
	locationStyle = lipgloss.NewStyle().Foreground(fg)
	ruleIDStyle   = lipgloss.NewStyle().Foreground(dim)
	fixStyle      = lipgloss.NewStyle().Foreground(dim).Italic(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a graded report for the terminal.
func RenderReport(r *domain.Report) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("apigrade")
	subtitle := dimStyle.Render("API Design Grade")
	api := titleStyle.Render(displayTitle(r))
	gradeStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(r.Grade)).
		Render(r.Grade)
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(gradeColor(r.Grade)).
		Render(fmt.Sprintf("%d / 100", r.Score))
	meta := dimStyle.Render(fmt.Sprintf("%s · %d endpoints · %s", r.Format, r.Endpoints, r.Visibility))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + api + "\n" + gradeStyled + "  " + scoreStyled + "\n" + meta))
	b.WriteString("\n\n")

	// ── Categories ──
	for _, cat := range r.Categories {
		renderCategory(&b, cat)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Findings ──
	if len(r.Findings) == 0 {
		b.WriteString("  " + passStyle.Render("No findings. Nice API.") + "\n\n")
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Findings"))
	b.WriteString("  ")
	b.WriteString(countTags(r.Counts))
	b.WriteString("\n\n")
	for _, f := range r.Findings {
		renderFinding(&b, f)
	}
	b.WriteString("\n")
	return b.String()
}

func displayTitle(r *domain.Report) string {
	name := r.Title
	if name == "" {
		name = r.Source
	}
	if r.Version != "" {
		name += " " + r.Version
	}
	return name
}

func renderCategory(b *strings.Builder, cat domain.CategorySummary) {
	var icon string
	switch {
	case cat.Counts.Critical > 0:
		icon = failStyle.Render("●")
	case cat.Counts.Warning > 0:
		icon = warnStyle.Render("●")
	default:
		icon = passStyle.Render("●")
	}

	name := catNameStyle.Render(padRight(string(cat.Name), 20))
	if cat.Counts.Total() == 0 {
		fmt.Fprintf(b, "  %s %s %s\n", icon, name, dimStyle.Render("clean"))
		return
	}
	fmt.Fprintf(b, "  %s %s %s\n", icon, name, countTags(cat.Counts))
}

func countTags(c domain.SeverityCounts) string {
	var parts []string
	if c.Critical > 0 {
		parts = append(parts, critTagStyle.Render(fmt.Sprintf("%d critical", c.Critical)))
	}
	if c.Warning > 0 {
		parts = append(parts, warnTagStyle.Render(fmt.Sprintf("%d warnings", c.Warning)))
	}
	if c.Suggestion > 0 {
		parts = append(parts, hintTagStyle.Render(fmt.Sprintf("%d suggestions", c.Suggestion)))
	}
	return strings.Join(parts, "  ")
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	fmt.Fprintf(b, "    %s %s %s\n",
		severityTag(f.Severity),
		ruleIDStyle.Render(padRight(f.RuleID, 7)),
		locationStyle.Render(f.Location.String()),
	)
	fmt.Fprintf(b, "                  %s\n", dimStyle.Render(f.Message))
	if f.Fix != "" {
		fmt.Fprintf(b, "                  %s\n", fixStyle.Render("fix: "+f.Fix))
	}
}

func severityTag(sev domain.Severity) string {
	switch sev {
	case domain.SeverityCritical:
		return critTagStyle.Render("crit")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn")
	default:
		return hintTagStyle.Render("hint")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}

// RenderGate prints the CI verdict for a set of reports. An empty minGrade
// checks each report against its own project minimum.
func RenderGate(reports []*domain.Report, minGrade string) string {
	var b strings.Builder
	for _, r := range reports {
		mark := passStyle.Render("✓")
		if !r.Passes(minGrade) {
			mark = failStyle.Render("✗")
		}
		fmt.Fprintf(&b, "  %s %s  %s",
			mark,
			lipgloss.NewStyle().Bold(true).Foreground(gradeColor(r.Grade)).Render(r.Grade),
			dimStyle.Render(r.Source),
		)
		if minGrade == "" {
			b.WriteString(faintStyle.Render("  (min " + r.Threshold("") + ")"))
		}
		b.WriteString("\n")
	}
	if minGrade != "" {
		fmt.Fprintf(&b, "  %s\n", faintStyle.Render("minimum grade: "+minGrade))
	}
	return b.String()
}
