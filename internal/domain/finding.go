package domain

import (
	"fmt"
	"sort"
)

// Severity ranks how much a finding matters.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// ValidSeverities lists severities from most to least severe.
var ValidSeverities = []Severity{SeverityCritical, SeverityWarning, SeveritySuggestion}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeveritySuggestion:
		return true
	}
	return false
}

// Rank orders severities: critical is 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeveritySuggestion:
		return 2
	}
	return 3
}

func (s Severity) String() string { return string(s) }

func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("invalid severity %q (valid: critical, warning, suggestion)", s)
	}
	return sev, nil
}

// Category groups rules by the design concern they check.
type Category string

const (
	CategoryNaming         Category = "naming"
	CategoryHTTPSemantics  Category = "http_semantics"
	CategoryResponseDesign Category = "response_design"
	CategoryErrorHandling  Category = "error_handling"
	CategoryVersioning     Category = "versioning"
	CategorySecurity       Category = "security"
	CategoryDocumentation  Category = "documentation"
)

// ValidCategories is also the display order of report sections.
var ValidCategories = []Category{
	CategoryNaming,
	CategoryHTTPSemantics,
	CategoryResponseDesign,
	CategoryErrorHandling,
	CategoryVersioning,
	CategorySecurity,
	CategoryDocumentation,
}

func (c Category) IsValid() bool {
	for _, v := range ValidCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Location points at the part of the API a finding is about. API-wide
// findings leave Method and Path empty.
type Location struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (l Location) String() string {
	var s string
	switch {
	case l.Method != "":
		s = l.Method + " " + l.Path
	case l.Path != "":
		s = l.Path
	default:
		s = "(api)"
	}
	if l.Field != "" {
		s += " → " + l.Field
	}
	return s
}

// Finding is one detected deviation from a design rule.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Location Location `json:"location"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

// SortFindings orders findings by severity, path, method rank, rule id and field.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Location.Path != b.Location.Path {
			return a.Location.Path < b.Location.Path
		}
		if a.Location.Method != b.Location.Method {
			return MethodRank(a.Location.Method) < MethodRank(b.Location.Method)
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Location.Field < b.Location.Field
	})
}
