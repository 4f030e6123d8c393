package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/bkyoung/diffcover/internal/domain"
)

// Engine supplies diff text and ref metadata for a repository directory.
// The diff itself comes from the git binary so its output matches what users
// see; ref resolution goes through go-git to avoid a subprocess per lookup.
type Engine struct {
	repoDir string
}

// NewEngine constructs a git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// Diff returns the unified diff between baseRef and the working tree.
// Anything written to git's stderr is fatal: partial diff output must never
// be correlated against coverage, so the error carries the stderr text and no
// stdout is returned.
func (e *Engine) Diff(ctx context.Context, baseRef string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", e.repoDir, "diff", "--no-color", "--no-ext-diff", baseRef)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("git diff %s: %w", baseRef, ctx.Err())
	}
	if err != nil || stderr.Len() > 0 {
		return "", &domain.DiffSourceError{Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := e.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	name := head.Name()
	if name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

// ResolveSHA resolves a ref name to its commit hash, trying the plain name,
// then local branches, then origin remotes.
func (e *Engine) ResolveSHA(ctx context.Context, ref string) (string, error) {
	repo, err := e.open()
	if err != nil {
		return "", err
	}

	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return hash.String(), nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("resolve ref %s: %w", ref, lastErr)
	}
	return "", fmt.Errorf("unable to resolve ref %s", ref)
}

func (e *Engine) open() (*goGit.Repository, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	return repo, nil
}
