package diff_test

import (
	"fmt"
	"testing"

	"github.com/codereviewbot/reviewbot/internal/diff"
)

// The removed-line skip is the behavior that historically went wrong:
// a removed line exists only in the pre-change file, so it consumes
// neither a reviewer-visible slot nor an absolute line.
func TestResolve_RemovedLineSkipped(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 10,
		Lines:       []string{" context1", "-removed1", "+added1", " context2"},
	}
	fileLines := makeLines(20)

	cases := []struct {
		diffLine int
		want     int
	}{
		{1, 10}, // context1
		{2, 11}, // added1; removed1 does not consume a slot
		{3, 12}, // context2
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("diffLine=%d", tc.diffLine), func(t *testing.T) {
			got := diff.Resolve(fileLines, hunk, tc.diffLine)
			if got != tc.want {
				t.Errorf("Resolve(%d) = %d, want %d", tc.diffLine, got, tc.want)
			}
		})
	}
}

func TestResolve_AllContext(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 5,
		Lines:       []string{" a", " b", " c"},
	}

	for i := 1; i <= 3; i++ {
		if got := diff.Resolve(makeLines(10), hunk, i); got != 4+i {
			t.Errorf("Resolve(%d) = %d, want %d", i, got, 4+i)
		}
	}
}

func TestResolve_LeadingRemovals(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 30,
		Lines:       []string{"-gone1", "-gone2", "+new1", " kept"},
	}

	if got := diff.Resolve(makeLines(40), hunk, 1); got != 30 {
		t.Errorf("Resolve(1) = %d, want 30", got)
	}
	if got := diff.Resolve(makeLines(40), hunk, 2); got != 31 {
		t.Errorf("Resolve(2) = %d, want 31", got)
	}
}

func TestResolve_OverrunReturnsBestEffort(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 10,
		Lines:       []string{" only", "+one"},
	}

	// diffLine past the addressable lines: walk completes and the
	// last absolute line reached comes back instead of an error.
	if got := diff.Resolve(makeLines(50), hunk, 9); got != 12 {
		t.Errorf("Resolve(9) = %d, want 12", got)
	}
}

func TestResolve_OverrunClampedToFileLength(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 4,
		Lines:       []string{" a", " b"},
	}

	if got := diff.Resolve(makeLines(5), hunk, 7); got != 5 {
		t.Errorf("Resolve(7) = %d, want clamp to 5", got)
	}
}

func TestResolve_EmptyFileContentDegradesToOffsets(t *testing.T) {
	hunk := diff.Hunk{
		SourceStart: 10,
		Lines:       []string{" context1", "-removed1", "+added1", " context2"},
	}

	// No file content (fetch failed): same walk, no clamping.
	if got := diff.Resolve(nil, hunk, 2); got != 11 {
		t.Errorf("Resolve(2) = %d, want 11", got)
	}
}

func makeLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}
