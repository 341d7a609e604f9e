package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/openkraft/apigrade/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitSpec initializes a repository in dir and commits one spec file at rel.
func commitSpec(t *testing.T, dir, rel string) (string, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	spec := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(spec), 0755))
	require.NoError(t, os.WriteFile(spec, []byte("openapi: 3.0.3\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(rel)
	require.NoError(t, err)
	hash, err := wt.Commit("add spec", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return spec, hash.String()
}

func TestGitInfo_CommitHash_MatchesHead(t *testing.T) {
	dir := t.TempDir()
	_, want := commitSpec(t, dir, "openapi.yaml")

	hash, err := gitinfo.New().CommitHash(dir)
	require.NoError(t, err)
	assert.Equal(t, want, hash)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_FromNestedSpecFile(t *testing.T) {
	dir := t.TempDir()
	spec, want := commitSpec(t, dir, filepath.Join("api", "v1", "openapi.yaml"))

	hash, err := gitinfo.New().CommitHash(spec)
	require.NoError(t, err)
	assert.Equal(t, want, hash)
}

func TestGitInfo_CommitHash_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gitinfo.New().CommitHash(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting HEAD")
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening git repo")
}
