package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/apigrade/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specsDir = "../../../../testdata/specs"

var (
	goodSpec = filepath.Join(specsDir, "good.yaml")
	badSpec  = filepath.Join(specsDir, "bad.yaml")
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestLintCommand_DefaultTUI(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "API Design Grade")
	assert.Contains(t, out, "Bookstore")
	assert.Contains(t, out, "100 / 100")
	assert.Contains(t, out, "No findings. Nice API.")
}

func TestLintCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec, "--format", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "A", report["grade"])
	assert.Equal(t, "public", report["visibility"])
	assert.NotEmpty(t, report["id"])
}

func TestLintCommand_JSONManySpecs(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec, badSpec, "-f", "json")
	require.NoError(t, err)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "A", reports[0]["grade"])
	assert.Equal(t, "F", reports[1]["grade"])
}

func TestLintCommand_FormatFromEnv(t *testing.T) {
	t.Setenv("APIGRADE_FORMAT", "json")
	out, err := runCLI(t, "lint", goodSpec)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
}

func TestLintCommand_DirectoryUsesProjectConfig(t *testing.T) {
	out, err := runCLI(t, "lint", filepath.Join(specsDir, "project"), "--format", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "internal", report["visibility"])
	assert.Equal(t, "B", report["min_grade"])
}

func TestLintCommand_VisibilityFlag(t *testing.T) {
	out, err := runCLI(t, "lint", badSpec, "--format", "json", "--visibility", "internal")
	require.NoError(t, err)
	assert.Contains(t, out, `"visibility": "internal"`)

	_, err = runCLI(t, "lint", badSpec, "--visibility", "partner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown visibility")
}

func TestLintCommand_Markdown(t *testing.T) {
	out, err := runCLI(t, "lint", badSpec, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## API Design Review:")
	assert.Contains(t, out, "### Grade: F")
	assert.Contains(t, out, "| Category | Critical | Warnings | Suggestions |")
	assert.Contains(t, out, "### Critical Issues")
}

func TestLintCommand_SARIF(t *testing.T) {
	out, err := runCLI(t, "lint", badSpec, "--format", "sarif")
	require.NoError(t, err)

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &log))
	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	require.NotEmpty(t, log.Runs[0].Results)

	ids := map[string]bool{}
	for _, r := range log.Runs[0].Results {
		ids[r.RuleID] = true
	}
	assert.True(t, ids["SEC001"])
}

func TestLintCommand_HTMLToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.html")
	out, err := runCLI(t, "lint", goodSpec, "--format", "html", "--output", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, string(data), "<title>API Design Review: Bookstore</title>")
}

func TestLintCommand_Badge(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec, "--badge")
	require.NoError(t, err)
	assert.Equal(t, "https://img.shields.io/badge/API%20grade-A%20%28100%29-brightgreen\n", out)
}

func TestLintCommand_BadgeMarkdown(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec, "--badge", "--format", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "![API grade](https://img.shields.io/badge/API%20grade-A%20%28100%29-brightgreen)\n", out)
}

func TestLintCommand_Stdin(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(specsDir, "endpoints.txt"))
	require.NoError(t, err)

	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(bytes.NewReader(data))
	cmd.SetArgs([]string{"lint", "-", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var report map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "<stdin>", report["source"])
	assert.Equal(t, "endpoint-list", report["format"])
}

func TestLintCommand_CIFails(t *testing.T) {
	_, err := runCLI(t, "lint", badSpec, "--ci")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grade below minimum")
	assert.Contains(t, err.Error(), "bad.yaml graded F (minimum C)")
}

func TestLintCommand_CIPasses(t *testing.T) {
	out, err := runCLI(t, "lint", goodSpec, "--ci", "--min-grade", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "minimum grade: A")
}

func TestLintCommand_CIKeepsJSONClean(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"lint", badSpec, "--ci", "--min-grade", "F", "--format", "json"})
	require.NoError(t, cmd.Execute())

	assert.True(t, json.Valid(stdout.Bytes()))
	assert.Contains(t, stderr.String(), "minimum grade: F")
}

func TestLintCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown format", args: []string{"lint", goodSpec, "--format", "pdf"}, want: "unknown format"},
		{name: "unknown grade", args: []string{"lint", goodSpec, "--min-grade", "E"}, want: "unknown grade"},
		{name: "missing spec", args: []string{"lint", filepath.Join(specsDir, "missing.yaml")}, want: "missing.yaml"},
		{name: "empty dir", args: []string{"lint", t.TempDir()}, want: "no API descriptions found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
