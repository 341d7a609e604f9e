package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/openkraft/apigrade/internal/adapters/outbound/config"
	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, appconfig.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
visibility: internal
disable: ["DOC*"]
severity:
  NAM003: suggestion
ignore_paths: ["/internal/**"]
min_grade: B
custom_rules:
  - id: CUS001
    category: naming
    severity: warning
    title: No admin paths
    when: path.startsWith("/admin")
`)
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityInternal, cfg.Visibility)
	assert.Equal(t, []string{"DOC*"}, cfg.Disable)
	assert.Equal(t, domain.SeveritySuggestion, cfg.Severity["NAM003"])
	assert.Equal(t, "B", cfg.MinGrade)
	require.Len(t, cfg.CustomRules, 1)
	assert.Equal(t, "CUS001", cfg.CustomRules[0].ID)
	assert.True(t, cfg.IsDisabled("DOC002"))
	assert.True(t, cfg.IsIgnoredPath("/internal/jobs/{id}"))
}

func TestYAMLLoader_EmptyFileIsDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)
	loader := appconfig.New()

	_, err := loader.Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .apigrade.yaml")
}

func TestYAMLLoader_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `visiblity: internal`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "visiblity")
}

func TestYAMLLoader_ValidationErrorsCollected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
visibility: partner
severity:
  SEC001: fatal
min_grade: Z
`)
	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid .apigrade.yaml")
	assert.Contains(t, msg, "partner")
	assert.Contains(t, msg, "fatal")
	assert.Contains(t, msg, "min_grade")
}

func TestYAMLLoader_LoadFileMissingIsError(t *testing.T) {
	_, err := appconfig.New().LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLLoader_LoadFileExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_grade: A\n"), 0644))

	cfg, err := appconfig.New().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A", cfg.EffectiveMinGrade())
	assert.Equal(t, domain.VisibilityPublic, cfg.EffectiveVisibility())
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Visibility = domain.VisibilityInternal
	cfg.MinGrade = "B"

	data, err := appconfig.Marshal(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	writeConfig(t, dir, string(data))
	got, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityInternal, got.Visibility)
	assert.Equal(t, "B", got.MinGrade)
}

func TestSchema_DescribesConfigFields(t *testing.T) {
	data, err := appconfig.Schema()
	require.NoError(t, err)

	var schema struct {
		Title      string                    `json:"title"`
		Properties map[string]map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "apigrade project configuration", schema.Title)
	for _, field := range []string{"visibility", "disable", "severity", "ignore_paths", "custom_rules", "min_grade"} {
		assert.Contains(t, schema.Properties, field)
	}
	assert.ElementsMatch(t, []any{"public", "internal"}, schema.Properties["visibility"]["enum"])
}
