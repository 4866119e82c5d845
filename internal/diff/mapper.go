package diff

import "strings"

// Resolve translates a diff-relative line number into an absolute
// 1-based line number in the target file.
//
// diffLine counts the hunk's reviewer-addressable lines starting at 1.
// Removed lines are skipped entirely: they consume neither a counter
// slot nor an absolute line, because comments anchor to the post-change
// file where removed lines no longer exist. Context and added lines
// each occupy one line of the resulting file.
//
// fileLines is the current content of the target file and may be empty
// when the fetch failed; the walk then degrades to hunk-relative
// offsets. The mapping is exact only if the file has not changed since
// the diff was generated; review runs against a stable commit satisfy
// this.
//
// Callers must validate 1 <= diffLine <= hunk.LineCount() first.
// Resolve never fails: if diffLine walks past the hunk's addressable
// lines, the last absolute line reached is returned as a best effort,
// clamped to the file length when content is available.
func Resolve(fileLines []string, hunk Hunk, diffLine int) int {
	absolute := hunk.SourceStart
	counter := 0

	for _, line := range hunk.Lines {
		if strings.HasPrefix(line, "-") {
			continue
		}
		counter++
		if counter == diffLine {
			return absolute
		}
		absolute++
	}

	if n := len(fileLines); n > 0 && absolute > n {
		absolute = n
	}
	return absolute
}
