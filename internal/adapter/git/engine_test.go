package git_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/codereviewbot/reviewbot/internal/adapter/git"
	"github.com/codereviewbot/reviewbot/internal/diff"
)

func TestEngineDiffBetweenBranches(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	writeFile(t, tmp, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hello\")\n}\n")
	if _, err := worktree.Add("main.go"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, err := worktree.Commit("initial", &goGit.CommitOptions{
		Author: defaultSignature(),
	}); err != nil {
		t.Fatalf("commit error: %v", err)
	}
	if err := checkoutBranch(worktree, "feature"); err != nil {
		t.Fatalf("checkout error: %v", err)
	}

	writeFile(t, tmp, "main.go", "package main\n\nfunc main() {\n\tprintln(\"feature\")\n}\n")
	if _, err := worktree.Add("main.go"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, err := worktree.Commit("feature change", &goGit.CommitOptions{
		Author: defaultSignature(),
	}); err != nil {
		t.Fatalf("feature commit error: %v", err)
	}

	engine := git.NewEngine(tmp)
	patchText, err := engine.Diff(ctx, "master", "feature")
	if err != nil {
		t.Fatalf("Diff returned error: %v", err)
	}

	if !strings.Contains(patchText, "main.go") {
		t.Fatalf("patch text missing file path: %q", patchText)
	}
	if !strings.Contains(patchText, "+\tprintln(\"feature\")") {
		t.Fatalf("patch text missing added line: %q", patchText)
	}

	// The patch feeds the same parser as the API diff.
	files := diff.Parse(patchText)
	if len(files) != 1 {
		t.Fatalf("expected 1 parsed file, got %d", len(files))
	}
	if files[0].Path != "main.go" {
		t.Fatalf("expected path main.go, got %s", files[0].Path)
	}
	if len(files[0].Hunks) == 0 {
		t.Fatal("expected at least one hunk")
	}
}

func TestEngineFileAt(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	writeFile(t, tmp, "a.txt", "one\ntwo\n")
	if _, err := worktree.Add("a.txt"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, err := worktree.Commit("initial", &goGit.CommitOptions{
		Author: defaultSignature(),
	}); err != nil {
		t.Fatalf("commit error: %v", err)
	}

	engine := git.NewEngine(tmp)
	content, err := engine.FileAt(ctx, "master", "a.txt")
	if err != nil {
		t.Fatalf("FileAt returned error: %v", err)
	}
	if content != "one\ntwo\n" {
		t.Fatalf("unexpected content: %q", content)
	}

	if _, err := engine.FileAt(ctx, "master", "missing.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEngineCurrentBranch(t *testing.T) {
	ctx := context.Background()
	tmp := t.TempDir()

	repo, err := goGit.PlainInit(tmp, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	writeFile(t, tmp, "a.txt", "one\n")
	if _, err := worktree.Add("a.txt"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if _, err := worktree.Commit("initial", &goGit.CommitOptions{
		Author: defaultSignature(),
	}); err != nil {
		t.Fatalf("commit error: %v", err)
	}

	engine := git.NewEngine(tmp)
	branch, err := engine.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch returned error: %v", err)
	}
	if branch != "master" {
		t.Fatalf("expected master, got %s", branch)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write file error: %v", err)
	}
}

func checkoutBranch(worktree *goGit.Worktree, name string) error {
	return worktree.Checkout(&goGit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
}

func defaultSignature() *object.Signature {
	return &object.Signature{
		Name:  "tester",
		Email: "tester@example.com",
		When:  time.Unix(1700000000, 0),
	}
}
