package domain

import "time"

// Report is the graded outcome of linting one API description.
type Report struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Format      SpecFormat        `json:"format"`
	Title       string            `json:"title,omitempty"`
	Version     string            `json:"version,omitempty"`
	Visibility  Visibility        `json:"visibility"`
	CommitHash  string            `json:"commit_hash,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Endpoints   int               `json:"endpoints"`
	Grade       string            `json:"grade"`
	MinGrade    string            `json:"min_grade"`
	Score       int               `json:"score"`
	Counts      SeverityCounts    `json:"counts"`
	Categories  []CategorySummary `json:"categories"`
	Findings    []Finding         `json:"findings"`
}

// Threshold returns override when set, else the report's own minimum grade.
func (r *Report) Threshold(override string) string {
	if override != "" {
		return override
	}
	if r.MinGrade != "" {
		return r.MinGrade
	}
	return DefaultMinGrade
}

// Passes reports whether the grade meets the threshold.
func (r *Report) Passes(override string) bool {
	return !GradeWorseThan(r.Grade, r.Threshold(override))
}

// SeverityCounts tallies findings per severity.
type SeverityCounts struct {
	Critical   int `json:"critical"`
	Warning    int `json:"warning"`
	Suggestion int `json:"suggestion"`
}

func (c SeverityCounts) Total() int { return c.Critical + c.Warning + c.Suggestion }

// Add increments the counter matching sev.
func (c *SeverityCounts) Add(sev Severity) {
	switch sev {
	case SeverityCritical:
		c.Critical++
	case SeverityWarning:
		c.Warning++
	case SeveritySuggestion:
		c.Suggestion++
	}
}

// CategorySummary groups the findings of one category.
type CategorySummary struct {
	Name     Category       `json:"name"`
	Counts   SeverityCounts `json:"counts"`
	Findings []Finding      `json:"findings,omitempty"`
}

// Grades from best to worst.
var Grades = []string{"A", "B", "C", "D", "F"}

// GradeRank returns the position of grade in Grades, or -1.
func GradeRank(grade string) int {
	for i, g := range Grades {
		if g == grade {
			return i
		}
	}
	return -1
}

// GradeWorseThan reports whether grade is strictly worse than min.
func GradeWorseThan(grade, min string) bool {
	return GradeRank(grade) > GradeRank(min)
}

func BadgeColor(grade string) string {
	switch grade {
	case "A":
		return "brightgreen"
	case "B":
		return "green"
	case "C":
		return "yellow"
	case "D":
		return "orange"
	default:
		return "red"
	}
}
