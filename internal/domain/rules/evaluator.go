package rules

import "github.com/openkraft/apigrade/internal/domain"

// Evaluator runs a catalog over an API under one project config.
type Evaluator struct {
	catalog *Catalog
	cfg     domain.ProjectConfig
}

func NewEvaluator(catalog *Catalog, cfg domain.ProjectConfig) *Evaluator {
	return &Evaluator{catalog: catalog, cfg: cfg}
}

// Catalog returns the catalog the evaluator runs.
func (e *Evaluator) Catalog() *Catalog { return e.catalog }

// Severity resolves a rule's severity: declared, then the visibility
// override, then the config override.
func (e *Evaluator) Severity(r Rule) domain.Severity {
	sev := r.SeverityFor(e.cfg.EffectiveVisibility())
	if override, ok := e.cfg.Severity[r.ID]; ok && override.IsValid() {
		sev = override
	}
	return sev
}

// Evaluate returns the sorted findings of every enabled rule.
func (e *Evaluator) Evaluate(api *domain.API) []domain.Finding {
	scoped := e.filterEndpoints(api)

	findings := []domain.Finding{}
	for _, r := range e.catalog.Rules() {
		if e.cfg.IsDisabled(r.ID) {
			continue
		}
		sev := e.Severity(r)
		for _, v := range r.Check(scoped) {
			fix := v.Fix
			if fix == "" {
				fix = r.Fix
			}
			findings = append(findings, domain.Finding{
				RuleID:   r.ID,
				Category: r.Category,
				Severity: sev,
				Location: v.Location,
				Message:  v.Message,
				Fix:      fix,
			})
		}
	}
	domain.SortFindings(findings)
	return findings
}

// filterEndpoints drops endpoints matching ignore_paths. The input is
// never modified.
func (e *Evaluator) filterEndpoints(api *domain.API) *domain.API {
	if len(e.cfg.IgnorePaths) == 0 {
		return api
	}
	scoped := *api
	scoped.Endpoints = make([]domain.Endpoint, 0, len(api.Endpoints))
	for _, ep := range api.Endpoints {
		if !e.cfg.IsIgnoredPath(ep.Path) {
			scoped.Endpoints = append(scoped.Endpoints, ep)
		}
	}
	return &scoped
}
