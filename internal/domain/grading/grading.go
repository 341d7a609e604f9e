// Package grading turns findings into a letter grade, a numeric score and a
// report grouped by category.
package grading

import (
	"github.com/openkraft/apigrade/internal/domain"
)

// Score deductions per finding. Suggestions cost a point so a report with
// only suggestions still shows room for improvement.
const (
	criticalPenalty   = 15
	warningPenalty    = 5
	suggestionPenalty = 1
)

// RubricRow is one line of the grading rubric.
type RubricRow struct {
	Grade     string `json:"grade"`
	Condition string `json:"condition"`
}

// Rubric describes how Grade maps counts to letters, best grade first.
var Rubric = []RubricRow{
	{Grade: "A", Condition: "0 critical and at most 2 warnings"},
	{Grade: "B", Condition: "0 critical and 3-5 warnings"},
	{Grade: "C", Condition: "1-2 critical, or 6-10 warnings"},
	{Grade: "D", Condition: "3-4 critical, or more than 10 warnings"},
	{Grade: "F", Condition: "5 or more critical"},
}

// RubricNote is printed under the rubric table.
const RubricNote = "Suggestions never change the grade. Score = max(0, 100 - 15*critical - 5*warning - 1*suggestion)."

// Grade applies the rubric. The worse of the critical-based and the
// warning-based grade wins.
func Grade(c domain.SeverityCounts) string {
	byCritical := "A"
	switch {
	case c.Critical >= 5:
		byCritical = "F"
	case c.Critical >= 3:
		byCritical = "D"
	case c.Critical >= 1:
		byCritical = "C"
	}

	byWarning := "A"
	switch {
	case c.Warning > 10:
		byWarning = "D"
	case c.Warning >= 6:
		byWarning = "C"
	case c.Warning >= 3:
		byWarning = "B"
	}

	if domain.GradeWorseThan(byCritical, byWarning) {
		return byCritical
	}
	return byWarning
}

// Score is a 0-100 number that moves with every finding, including
// suggestions.
func Score(c domain.SeverityCounts) int {
	s := 100 - criticalPenalty*c.Critical - warningPenalty*c.Warning - suggestionPenalty*c.Suggestion
	return max(0, s)
}

// Count tallies findings per severity.
func Count(findings []domain.Finding) domain.SeverityCounts {
	var c domain.SeverityCounts
	for _, f := range findings {
		c.Add(f.Severity)
	}
	return c
}

// Summarize groups findings by category in display order. Every category is
// present, even when it has no findings.
func Summarize(findings []domain.Finding) []domain.CategorySummary {
	byCat := make(map[domain.Category][]domain.Finding, len(domain.ValidCategories))
	for _, f := range findings {
		byCat[f.Category] = append(byCat[f.Category], f)
	}
	out := make([]domain.CategorySummary, 0, len(domain.ValidCategories))
	for _, cat := range domain.ValidCategories {
		fs := byCat[cat]
		out = append(out, domain.CategorySummary{
			Name:     cat,
			Counts:   Count(fs),
			Findings: fs,
		})
	}
	return out
}

// BuildReport aggregates findings for api. Identity fields (ID,
// GeneratedAt, CommitHash) are left to the caller.
func BuildReport(api *domain.API, findings []domain.Finding, visibility domain.Visibility) *domain.Report {
	if findings == nil {
		findings = []domain.Finding{}
	}
	counts := Count(findings)
	return &domain.Report{
		Source:     api.Source,
		Format:     api.Format,
		Title:      api.Title,
		Version:    api.Version,
		Visibility: visibility,
		Endpoints:  len(api.Endpoints),
		Grade:      Grade(counts),
		Score:      Score(counts),
		Counts:     counts,
		Categories: Summarize(findings),
		Findings:   findings,
	}
}
