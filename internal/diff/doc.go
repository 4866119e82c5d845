// Package diff parses unified diffs into per-file hunks and maps
// reviewer-supplied diff-relative line numbers back to absolute file
// line numbers. It is the core of comment placement: a misplaced
// mapping puts a review comment on the wrong source line.
//
// The package is read-side only. It does not merge hunks, compute
// diffs, or apply patches.
package diff
