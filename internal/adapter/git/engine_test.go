package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diffcover/internal/adapter/git"
	"github.com/bkyoung/diffcover/internal/domain"
)

// initRepo creates a repository with a single commit on the default branch.
func initRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := goGit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	hash, err := wt.Commit("initial commit", &goGit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestDiffCleanTree(t *testing.T) {
	dir, _ := initRepo(t)
	engine := git.NewEngine(dir)

	out, err := engine.Diff(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiffModifiedFile(t *testing.T) {
	dir, _ := initRepo(t)
	content := []byte("package main\n\nfunc main() {}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), content, 0o644))
	engine := git.NewEngine(dir)

	out, err := engine.Diff(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Contains(t, out, "diff --git a/main.go b/main.go")
	assert.Contains(t, out, "+func main() {}")
}

func TestDiffBadRef(t *testing.T) {
	dir, _ := initRepo(t)
	engine := git.NewEngine(dir)

	out, err := engine.Diff(context.Background(), "no-such-ref")
	require.Error(t, err)
	assert.Empty(t, out, "no partial output on failure")

	var srcErr *domain.DiffSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.NotEmpty(t, srcErr.Stderr)
}

func TestCurrentBranch(t *testing.T) {
	dir, _ := initRepo(t)
	engine := git.NewEngine(dir)

	branch, err := engine.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestCurrentBranchOutsideRepo(t *testing.T) {
	engine := git.NewEngine(t.TempDir())

	_, err := engine.CurrentBranch(context.Background())
	require.Error(t, err)
}

func TestResolveSHA(t *testing.T) {
	dir, want := initRepo(t)
	engine := git.NewEngine(dir)

	for _, ref := range []string{"HEAD", "master"} {
		sha, err := engine.ResolveSHA(context.Background(), ref)
		require.NoError(t, err, "ref %s", ref)
		assert.Equal(t, want, sha, "ref %s", ref)
	}
}

func TestResolveSHAUnknownRef(t *testing.T) {
	dir, _ := initRepo(t)
	engine := git.NewEngine(dir)

	_, err := engine.ResolveSHA(context.Background(), "no-such-branch")
	require.Error(t, err)
}
