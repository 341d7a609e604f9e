package application

import (
	"fmt"
	"strings"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

// RuleView is a catalog rule as a given project sees it.
type RuleView struct {
	rules.Rule
	EffectiveSeverity domain.Severity `json:"effective_severity"`
	Disabled          bool            `json:"disabled,omitempty"`
}

// RulesService answers catalog questions under a project's config.
type RulesService struct {
	configLoader domain.ConfigLoader
}

func NewRulesService(configLoader domain.ConfigLoader) *RulesService {
	return &RulesService{configLoader: configLoader}
}

// List returns every rule, optionally restricted to one category.
func (s *RulesService) List(src ConfigSource, category domain.Category) ([]RuleView, error) {
	if category != "" && !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	cfg, catalog, err := s.load(src)
	if err != nil {
		return nil, err
	}

	ev := rules.NewEvaluator(catalog, cfg)
	var out []RuleView
	for _, r := range catalog.Rules() {
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, view(ev, cfg, r))
	}
	return out, nil
}

// Explain looks up one rule by id, case-insensitively.
func (s *RulesService) Explain(src ConfigSource, id string) (RuleView, error) {
	cfg, catalog, err := s.load(src)
	if err != nil {
		return RuleView{}, err
	}
	r, ok := catalog.Lookup(strings.ToUpper(strings.TrimSpace(id)))
	if !ok {
		return RuleView{}, fmt.Errorf("unknown rule %q", id)
	}
	return view(rules.NewEvaluator(catalog, cfg), cfg, r), nil
}

func (s *RulesService) load(src ConfigSource) (domain.ProjectConfig, *rules.Catalog, error) {
	cfg, err := loadConfig(s.configLoader, src)
	if err != nil {
		return domain.ProjectConfig{}, nil, err
	}
	catalog, err := BuildCatalog(cfg)
	if err != nil {
		return domain.ProjectConfig{}, nil, err
	}
	return cfg, catalog, nil
}

func view(ev *rules.Evaluator, cfg domain.ProjectConfig, r rules.Rule) RuleView {
	return RuleView{
		Rule:              r,
		EffectiveSeverity: ev.Severity(r),
		Disabled:          cfg.IsDisabled(r.ID),
	}
}
