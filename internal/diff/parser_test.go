package diff_test

import (
	"reflect"
	"testing"

	"github.com/codereviewbot/reviewbot/internal/diff"
)

const twoFileDiff = `diff --git a/main.go b/main.go
index 83db48f..bf269f4 100644
--- a/main.go
+++ b/main.go
@@ -10,3 +10,4 @@ func example() {
 context line
+added line
 another context
+second addition
diff --git a/util.go b/util.go
index 1234567..89abcde 100644
--- a/util.go
+++ b/util.go
@@ -1,2 +1,2 @@
-old
+new
 tail
`

func TestParse_FileCountMatchesMarkers(t *testing.T) {
	files := diff.Parse(twoFileDiff)

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Path != "main.go" {
		t.Errorf("expected path main.go, got %q", files[0].Path)
	}
	if files[1].Path != "util.go" {
		t.Errorf("expected path util.go, got %q", files[1].Path)
	}
}

func TestParse_HunkHeaderRanges(t *testing.T) {
	files := diff.Parse(twoFileDiff)

	hunk := files[0].Hunks[0]
	if hunk.SourceStart != 10 || hunk.SourceLength != 3 {
		t.Errorf("expected source 10,3 got %d,%d", hunk.SourceStart, hunk.SourceLength)
	}
	if hunk.TargetStart != 10 || hunk.TargetLength != 4 {
		t.Errorf("expected target 10,4 got %d,%d", hunk.TargetStart, hunk.TargetLength)
	}
	if hunk.Header != "@@ -10,3 +10,4 @@ func example() {" {
		t.Errorf("unexpected header %q", hunk.Header)
	}
}

func TestParse_RawLinesPreserveOrder(t *testing.T) {
	files := diff.Parse(twoFileDiff)

	want := []string{" context line", "+added line", " another context", "+second addition"}
	got := files[0].Hunks[0].Lines
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestParse_ShortRangeForm(t *testing.T) {
	patch := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -5 +5 @@
-x
+y
`
	files := diff.Parse(patch)

	hunk := files[0].Hunks[0]
	if hunk.SourceStart != 5 || hunk.SourceLength != 1 {
		t.Errorf("expected source 5,1 got %d,%d", hunk.SourceStart, hunk.SourceLength)
	}
}

func TestParse_TargetPathWins(t *testing.T) {
	patch := `diff --git a/old/name.go b/new/name.go
--- a/old/name.go
+++ b/new/name.go
@@ -1 +1 @@
-a
+b
`
	files := diff.Parse(patch)

	if files[0].Path != "new/name.go" {
		t.Errorf("expected post-change path, got %q", files[0].Path)
	}
}

func TestParse_DeletionFallsBackToSourcePath(t *testing.T) {
	// "+++ /dev/null" does not match the target marker, so the path
	// from "--- a/" survives.
	patch := `diff --git a/gone.go b/gone.go
--- a/gone.go
+++ /dev/null
@@ -1,2 +0,0 @@
-line one
-line two
`
	files := diff.Parse(patch)

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Path != "gone.go" {
		t.Errorf("expected gone.go, got %q", files[0].Path)
	}
}

func TestParse_RenameWithoutHunks(t *testing.T) {
	patch := `diff --git a/old.go b/renamed.go
similarity index 100%
rename from old.go
rename to renamed.go
diff --git a/other.go b/other.go
--- a/other.go
+++ b/other.go
@@ -1 +1 @@
-a
+b
`
	files := diff.Parse(patch)

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if len(files[0].Hunks) != 0 {
		t.Errorf("rename-only file should have no hunks, got %d", len(files[0].Hunks))
	}
	if len(files[1].Hunks) != 1 {
		t.Errorf("expected 1 hunk on second file, got %d", len(files[1].Hunks))
	}
}

func TestParse_HunkBeforeFileMarkerDropped(t *testing.T) {
	patch := `@@ -1,2 +1,2 @@
-orphan
+orphan
diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1 +1 @@
-x
+y
`
	files := diff.Parse(patch)

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if len(files[0].Hunks) != 1 {
		t.Errorf("expected 1 hunk, got %d", len(files[0].Hunks))
	}
}

func TestParse_TrailingNewlineAddsNoPhantomLine(t *testing.T) {
	// API-served diffs end with a newline. The final hunk must not
	// absorb the empty element after the last line.
	patch := "diff --git a/a.go b/a.go\n" +
		"--- a/a.go\n" +
		"+++ b/a.go\n" +
		"@@ -10,2 +10,2 @@\n" +
		" context1\n" +
		"+added1\n"
	files := diff.Parse(patch)

	hunk := files[0].Hunks[0]
	want := []string{" context1", "+added1"}
	if !reflect.DeepEqual(hunk.Lines, want) {
		t.Errorf("lines = %q, want %q", hunk.Lines, want)
	}
	if hunk.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", hunk.LineCount())
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if files := diff.Parse(""); len(files) != 0 {
		t.Errorf("expected no files, got %d", len(files))
	}
}

func TestParse_Idempotent(t *testing.T) {
	first := diff.Parse(twoFileDiff)
	second := diff.Parse(twoFileDiff)

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same diff twice produced different results")
	}
}

func TestParse_MultipleHunksPerFile(t *testing.T) {
	patch := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -10,2 +10,3 @@ func first() {
 context
+added
@@ -20,2 +21,3 @@ func second() {
 context
+added
`
	files := diff.Parse(patch)

	if len(files[0].Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(files[0].Hunks))
	}
	if files[0].Hunks[0].SourceStart != 10 {
		t.Errorf("hunk 0: expected SourceStart=10, got %d", files[0].Hunks[0].SourceStart)
	}
	if files[0].Hunks[1].SourceStart != 20 {
		t.Errorf("hunk 1: expected SourceStart=20, got %d", files[0].Hunks[1].SourceStart)
	}
}

func TestHunk_Text(t *testing.T) {
	hunk := diff.Hunk{Lines: []string{" a", "-b", "+c"}}

	if got := hunk.Text(); got != " a\n-b\n+c" {
		t.Errorf("Text() = %q", got)
	}
	if hunk.LineCount() != 3 {
		t.Errorf("LineCount() = %d, want 3", hunk.LineCount())
	}
}
