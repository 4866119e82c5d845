// Package git produces unified diff text from a local checkout, for
// reviewing changes without a pull request API round trip.
package git

import (
	"context"
	"fmt"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Engine computes diffs for a repository directory, backed by go-git.
type Engine struct {
	repoDir string
}

// NewEngine constructs a Git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// Diff returns the unified diff between two refs as patch text, in
// the same format the GitHub diff endpoint serves, so the same parser
// consumes both.
func (e *Engine) Diff(ctx context.Context, baseRef, targetRef string) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return "", fmt.Errorf("resolve base ref: %w", err)
	}

	targetCommit, err := resolveCommit(repo, targetRef)
	if err != nil {
		return "", fmt.Errorf("resolve target ref: %w", err)
	}

	patch, err := baseCommit.PatchContext(ctx, targetCommit)
	if err != nil {
		return "", fmt.Errorf("compute patch: %w", err)
	}

	return patch.String(), nil
}

// FileAt returns a file's content at the given ref.
func (e *Engine) FileAt(ctx context.Context, ref, path string) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return "", fmt.Errorf("resolve ref: %w", err)
	}

	file, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("file %s at %s: %w", path, ref, err)
	}
	return file.Contents()
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
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

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}
