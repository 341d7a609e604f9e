package application

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/openkraft/apigrade/internal/domain/rules"
)

// ConfigSource says where project configuration comes from. File wins over
// Dir; when both are empty the defaults apply.
type ConfigSource struct {
	File string
	Dir  string
}

func loadConfig(loader domain.ConfigLoader, src ConfigSource) (domain.ProjectConfig, error) {
	switch {
	case src.File != "":
		cfg, err := loader.LoadFile(src.File)
		if err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	case src.Dir != "":
		cfg, err := loader.Load(src.Dir)
		if err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	default:
		return domain.DefaultConfig(), nil
	}
}

// BuildCatalog returns the built-in catalog extended with cfg's custom rules.
// Severity overrides must name a rule of that catalog.
func BuildCatalog(cfg domain.ProjectConfig) (*rules.Catalog, error) {
	catalog := rules.Builtin()
	if len(cfg.CustomRules) > 0 {
		custom, err := rules.CompileCustomRules(cfg.CustomRules)
		if err != nil {
			return nil, err
		}
		catalog, err = catalog.With(custom...)
		if err != nil {
			return nil, fmt.Errorf("adding custom rules: %w", err)
		}
	}
	if err := checkSeverityOverrides(cfg, catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func checkSeverityOverrides(cfg domain.ProjectConfig, catalog *rules.Catalog) error {
	ids := make([]string, 0, len(cfg.Severity))
	for id := range cfg.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var result *multierror.Error
	for _, id := range ids {
		if _, ok := catalog.Lookup(id); !ok {
			result = multierror.Append(result, fmt.Errorf("severity override for unknown rule %q", id))
		}
	}
	return result.ErrorOrNil()
}
