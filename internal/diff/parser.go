package diff

import (
	"strconv"
	"strings"
)

// NullDevice is the path git uses for the missing side of a creation
// or deletion.
const NullDevice = "/dev/null"

// File represents one file touched by a unified diff.
type File struct {
	// Path is the repository-relative path after the change. For
	// deletions the target marker is /dev/null, so Path falls back to
	// the source marker's path.
	Path string

	// Hunks in order of appearance. A pure rename produces a File
	// with no hunks.
	Hunks []Hunk
}

// Hunk is a contiguous block of changed lines within one file.
type Hunk struct {
	// Header is the raw @@ range line.
	Header string

	// Lines holds the raw diff lines of the hunk, verbatim and in
	// order, each prefixed with '+', '-', or ' '.
	Lines []string

	SourceStart  int // First line in the original file covered by the hunk
	SourceLength int
	TargetStart  int // First line in the resulting file covered by the hunk
	TargetLength int
}

// LineCount returns the number of raw lines in the hunk, exactly as
// presented to a reviewer. Findings whose line number falls outside
// [1, LineCount()] must be discarded by callers before mapping.
func (h Hunk) LineCount() int {
	return len(h.Lines)
}

// Text returns the hunk's raw lines joined in order, the form a
// reviewer is shown.
func (h Hunk) Text() string {
	return strings.Join(h.Lines, "\n")
}

// Parse converts a raw unified diff into an ordered list of Files.
//
// The scan keeps a current-file and current-hunk cursor. "diff --git"
// closes the current file and opens a new one, "--- a/" and "+++ b/"
// set the file path (the target path wins, since comments attach to
// the post-change file), and "@@" opens a new hunk. Everything else is
// appended verbatim to the active hunk.
//
// Malformed input degrades: lines before the first file marker are
// dropped, hunk bodies before the first @@ are dropped, and Parse
// never fails. It is pure and deterministic.
func Parse(diffText string) []File {
	var files []File
	var current *File
	var hunk *Hunk

	flush := func() {
		if current != nil {
			if hunk != nil {
				current.Hunks = append(current.Hunks, *hunk)
				hunk = nil
			}
			files = append(files, *current)
		}
	}

	// A newline-terminated diff would otherwise split into a trailing
	// empty element and append a phantom blank line to the last hunk.
	for _, line := range strings.Split(strings.TrimSuffix(diffText, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush()
			current = &File{}

		case strings.HasPrefix(line, "--- a/"):
			if current != nil {
				current.Path = line[len("--- a/"):]
			}

		case strings.HasPrefix(line, "+++ b/"):
			if current != nil {
				current.Path = line[len("+++ b/"):]
			}

		case strings.HasPrefix(line, "@@"):
			if current == nil {
				continue
			}
			if hunk != nil {
				current.Hunks = append(current.Hunks, *hunk)
			}
			h := parseHunkHeader(line)
			hunk = &h

		default:
			if hunk != nil {
				hunk.Lines = append(hunk.Lines, line)
			}
		}
	}

	flush()
	return files
}

// parseHunkHeader parses "@@ -s,l +s,l @@ optional context". Malformed
// ranges leave the corresponding fields zero; the raw header is kept
// either way.
func parseHunkHeader(line string) Hunk {
	hunk := Hunk{Header: line}

	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return hunk
	}

	for _, field := range strings.Fields(strings.TrimSpace(parts[1])) {
		switch {
		case strings.HasPrefix(field, "-"):
			hunk.SourceStart, hunk.SourceLength = parseRange(field[1:])
		case strings.HasPrefix(field, "+"):
			hunk.TargetStart, hunk.TargetLength = parseRange(field[1:])
		}
	}

	return hunk
}

// parseRange parses "start,count" or the short "start" form, which
// implies a count of 1.
func parseRange(s string) (start, count int) {
	if idx := strings.Index(s, ","); idx >= 0 {
		start, _ = strconv.Atoi(s[:idx])
		count, _ = strconv.Atoi(s[idx+1:])
		return start, count
	}
	start, _ = strconv.Atoi(s)
	return start, 1
}
