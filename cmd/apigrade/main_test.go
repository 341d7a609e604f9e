package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openkraft/apigrade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "apigrade-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "apigrade")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func specPath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/specs", name))
	return abs
}

func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

func TestE2E_Lint(t *testing.T) {
	out, _, code := run(t, "", "lint", specPath("good.yaml"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "API Design Grade")
	assert.Contains(t, out, "100 / 100")
}

func TestE2E_LintJSON(t *testing.T) {
	out, _, code := run(t, "", "lint", specPath("swagger.json"), "--format", "json")
	assert.Equal(t, 0, code)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.FormatSwagger2, report.Format)
	assert.Len(t, report.Categories, len(domain.ValidCategories))
	assert.NotEmpty(t, report.Grade)
}

func TestE2E_LintCIExitCode(t *testing.T) {
	_, stderr, code := run(t, "", "lint", specPath("bad.yaml"), "--ci")
	assert.Equal(t, 1, code, "should exit 1 when below minimum")
	assert.Contains(t, stderr, "grade below minimum")
}

func TestE2E_LintStdin(t *testing.T) {
	out, _, code := run(t, "GET /v1/users 200\nPOST /v1/users 201 400\n", "lint", "-", "--format", "json")
	assert.Equal(t, 0, code)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "<stdin>", report.Source)
	assert.Equal(t, 2, report.Endpoints)
}

func TestE2E_LogsGoToStderr(t *testing.T) {
	out, stderr, code := run(t, "", "--log-level", "debug", "--log-format", "json", "lint", specPath("good.yaml"), "--format", "json")
	assert.Equal(t, 0, code)
	assert.True(t, json.Valid([]byte(out)), "stdout holds only the report")
	assert.Contains(t, stderr, `"message":"graded"`)
}

func TestE2E_RulesShow(t *testing.T) {
	out, _, code := run(t, "", "rules", "show", "VER001")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "VER001")
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "apigrade")
}

func TestE2E_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, "", "grade")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}
