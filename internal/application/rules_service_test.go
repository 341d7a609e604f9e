package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/application"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesService_ListAll(t *testing.T) {
	views, err := application.NewRulesService(config.New()).List(application.ConfigSource{}, "")
	require.NoError(t, err)
	assert.Len(t, views, 32)
	for _, v := range views {
		assert.Equal(t, v.Severity, v.EffectiveSeverity, v.ID)
		assert.False(t, v.Disabled)
	}
}

func TestRulesService_ListCategory(t *testing.T) {
	views, err := application.NewRulesService(config.New()).List(application.ConfigSource{}, domain.CategoryVersioning)
	require.NoError(t, err)
	require.NotEmpty(t, views)
	for _, v := range views {
		assert.Equal(t, domain.CategoryVersioning, v.Category)
	}

	_, err = application.NewRulesService(config.New()).List(application.ConfigSource{}, "style")
	assert.Error(t, err)
}

func TestRulesService_ListUnderProjectConfig(t *testing.T) {
	src := application.ConfigSource{Dir: filepath.Join(specsDir, "project")}
	views, err := application.NewRulesService(config.New()).List(src, "")
	require.NoError(t, err)

	byID := map[string]application.RuleView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.True(t, byID["DOC001"].Disabled)
	assert.False(t, byID["NAM001"].Disabled)
	assert.Equal(t, domain.SeveritySuggestion, byID["VER001"].EffectiveSeverity)
	assert.Equal(t, domain.SeverityWarning, byID["SEC001"].EffectiveSeverity)
}

func TestRulesService_Explain(t *testing.T) {
	svc := application.NewRulesService(config.New())

	v, err := svc.Explain(application.ConfigSource{}, " sec003 ")
	require.NoError(t, err)
	assert.Equal(t, "SEC003", v.ID)
	assert.NotEmpty(t, v.Rationale)

	_, err = svc.Explain(application.ConfigSource{}, "NOPE001")
	assert.Error(t, err)
}

func TestRulesService_ExplainCustomRule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(`
custom_rules:
  - id: CUS001
    category: security
    severity: warning
    title: Admin endpoints must be secured
    when: 'path.startsWith("/admin") && !secured'
`), 0644))

	v, err := application.NewRulesService(config.New()).Explain(application.ConfigSource{Dir: dir}, "CUS001")
	require.NoError(t, err)
	assert.True(t, v.Custom)
	assert.Equal(t, domain.SeverityWarning, v.EffectiveSeverity)
}
