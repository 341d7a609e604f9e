// Package rules holds the static API design rule catalog and the evaluator
// that runs it over a normalized API.
package rules

import (
	"fmt"
	"sort"

	"github.com/openkraft/apigrade/internal/domain"
)

// Scope says what a rule's predicate looks at.
type Scope string

const (
	ScopeEndpoint Scope = "endpoint"
	ScopeAPI      Scope = "api"
)

// Violation is what a predicate reports. The evaluator turns it into a
// domain.Finding carrying the rule's id, category and resolved severity.
// A non-empty Fix replaces the rule's generic fix text.
type Violation struct {
	Location domain.Location
	Message  string
	Fix      string
}

// Rule is one entry of the catalog.
type Rule struct {
	ID        string                                `json:"id"`
	Category  domain.Category                       `json:"category"`
	Scope     Scope                                 `json:"scope"`
	Severity  domain.Severity                       `json:"severity"`
	Overrides map[domain.Visibility]domain.Severity `json:"overrides,omitempty"`
	Title     string                                `json:"title"`
	Rationale string                                `json:"rationale"`
	Fix       string                                `json:"fix"`
	Bad       string                                `json:"bad,omitempty"`
	Good      string                                `json:"good,omitempty"`
	Custom    bool                                  `json:"custom,omitempty"`
	endpoint  func(ep domain.Endpoint) []Violation
	api       func(api *domain.API) []Violation
}

// SeverityFor returns the rule's severity for an API of the given visibility.
func (r Rule) SeverityFor(v domain.Visibility) domain.Severity {
	if sev, ok := r.Overrides[v]; ok {
		return sev
	}
	return r.Severity
}

// Check runs the rule's predicate. API-scope rules see the whole API;
// endpoint-scope rules run once per endpoint.
func (r Rule) Check(api *domain.API) []Violation {
	var out []Violation
	switch r.Scope {
	case ScopeAPI:
		if r.api != nil {
			out = r.api(api)
		}
	default:
		if r.endpoint == nil {
			return nil
		}
		for _, ep := range api.Endpoints {
			out = append(out, r.endpoint(ep)...)
		}
	}
	return out
}

// Catalog is an immutable, id-indexed set of rules.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalog builds a catalog. Rule ids must be unique.
func NewCatalog(rules ...Rule) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(rules))}
	for _, r := range rules {
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		c.byID[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	sort.SliceStable(c.rules, func(i, j int) bool { return c.rules[i].ID < c.rules[j].ID })
	for i, r := range c.rules {
		c.byID[r.ID] = i
	}
	return c, nil
}

var builtin = mustCatalog(builtinRules())

func mustCatalog(rules []Rule) *Catalog {
	c, err := NewCatalog(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

// Builtin returns the built-in catalog. It is shared and read-only.
func Builtin() *Catalog { return builtin }

// With returns a new catalog holding c's rules plus extra.
func (c *Catalog) With(extra ...Rule) (*Catalog, error) {
	all := make([]Rule, 0, len(c.rules)+len(extra))
	all = append(all, c.rules...)
	all = append(all, extra...)
	return NewCatalog(all...)
}

// Rules returns the rules in id order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Lookup finds a rule by id.
func (c *Catalog) Lookup(id string) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// ByCategory returns the rules of one category in id order.
func (c *Catalog) ByCategory(cat domain.Category) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

func (c *Catalog) Len() int { return len(c.rules) }
