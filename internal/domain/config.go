package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
)

// Visibility says who consumes the API. Some rules soften for internal APIs.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// ValidVisibilities enumerates all recognized visibilities.
var ValidVisibilities = []Visibility{VisibilityPublic, VisibilityInternal}

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityInternal
}

// DefaultMinGrade is the CI threshold when neither flag nor config sets one.
const DefaultMinGrade = "C"

// ProjectConfig holds project-level configuration loaded from .apigrade.yaml.
type ProjectConfig struct {
	Visibility  Visibility          `yaml:"visibility,omitempty" json:"visibility,omitempty" jsonschema:"enum=public,enum=internal"`
	Disable     []string            `yaml:"disable,omitempty" json:"disable,omitempty" jsonschema:"description=Rule id patterns to turn off (glob syntax: DOC*)"`
	Severity    map[string]Severity `yaml:"severity,omitempty" json:"severity,omitempty" jsonschema:"description=Per-rule severity overrides"`
	IgnorePaths []string            `yaml:"ignore_paths,omitempty" json:"ignore_paths,omitempty" jsonschema:"description=Path templates to skip (/users/{id} or doublestar syntax: /internal/**)"`
	CustomRules []CustomRule        `yaml:"custom_rules,omitempty" json:"custom_rules,omitempty"`
	MinGrade    string              `yaml:"min_grade,omitempty" json:"min_grade,omitempty" jsonschema:"enum=A,enum=B,enum=C,enum=D,enum=F"`
}

// CustomRule is a user-defined endpoint rule. When is a CEL expression that
// evaluates to true for violating endpoints.
type CustomRule struct {
	ID       string   `yaml:"id"       json:"id"`
	Category Category `yaml:"category" json:"category"`
	Severity Severity `yaml:"severity" json:"severity"`
	Title    string   `yaml:"title"    json:"title"`
	Message  string   `yaml:"message"  json:"message,omitempty"`
	Fix      string   `yaml:"fix"      json:"fix,omitempty"`
	When     string   `yaml:"when"     json:"when"`
}

// DefaultConfig returns a config that changes nothing: public API, every
// built-in rule at its declared severity.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{Visibility: VisibilityPublic}
}

// EffectiveVisibility falls back to public when unset.
func (c ProjectConfig) EffectiveVisibility() Visibility {
	if c.Visibility == "" {
		return VisibilityPublic
	}
	return c.Visibility
}

// EffectiveMinGrade falls back to DefaultMinGrade when unset.
func (c ProjectConfig) EffectiveMinGrade() string {
	if c.MinGrade == "" {
		return DefaultMinGrade
	}
	return c.MinGrade
}

var customRuleID = regexp.MustCompile(`^[A-Z][A-Z0-9_-]*[0-9]+$`)

// Validate checks every field and returns all problems at once.
func (c ProjectConfig) Validate() error {
	var result *multierror.Error

	if c.Visibility != "" && !c.Visibility.IsValid() {
		result = multierror.Append(result, fmt.Errorf("unknown visibility %q (valid: public, internal)", c.Visibility))
	}

	for _, pattern := range c.Disable {
		if _, err := glob.Compile(pattern); err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid disable pattern %q: %w", pattern, err))
		}
	}

	for id, sev := range c.Severity {
		if !sev.IsValid() {
			result = multierror.Append(result, fmt.Errorf("severity[%s] = %q (valid: critical, warning, suggestion)", id, sev))
		}
	}

	for _, pattern := range c.IgnorePaths {
		if !doublestar.ValidatePattern(pathPattern(pattern)) {
			result = multierror.Append(result, fmt.Errorf("invalid ignore_paths pattern %q", pattern))
		}
	}

	if c.MinGrade != "" && GradeRank(c.MinGrade) < 0 {
		result = multierror.Append(result, fmt.Errorf("unknown min_grade %q (valid: A, B, C, D, F)", c.MinGrade))
	}

	seen := make(map[string]bool, len(c.CustomRules))
	for i, r := range c.CustomRules {
		if err := r.validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("custom_rules[%d]: %w", i, err))
		}
		if seen[r.ID] {
			result = multierror.Append(result, fmt.Errorf("custom_rules[%d]: duplicate id %q", i, r.ID))
		}
		seen[r.ID] = true
	}

	return result.ErrorOrNil()
}

func (r CustomRule) validate() error {
	if !customRuleID.MatchString(r.ID) {
		return fmt.Errorf("id %q must be upper-case letters followed by digits (e.g. CUS001)", r.ID)
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if !r.Severity.IsValid() {
		return fmt.Errorf("unknown severity %q", r.Severity)
	}
	if r.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if r.When == "" {
		return fmt.Errorf("when must not be empty")
	}
	return nil
}

// IsDisabled reports whether ruleID matches any disable pattern.
// Invalid patterns never match; Validate reports them.
func (c ProjectConfig) IsDisabled(ruleID string) bool {
	for _, pattern := range c.Disable {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(ruleID) {
			return true
		}
	}
	return false
}

// templateBraces makes path template braces literal; doublestar reads them
// as alternation.
var templateBraces = strings.NewReplacer("{", `\{`, "}", `\}`)

func pathPattern(pattern string) string {
	return templateBraces.Replace(pattern)
}

// IsIgnoredPath reports whether path matches any ignore_paths pattern.
// Path parameters are written as in the API description: /users/{id}.
func (c ProjectConfig) IsIgnoredPath(path string) bool {
	for _, pattern := range c.IgnorePaths {
		if ok, _ := doublestar.Match(pathPattern(pattern), path); ok {
			return true
		}
	}
	return false
}
