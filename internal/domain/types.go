package domain

// PRDetails identifies the pull request under review along with the
// title and description that feed the reviewer prompt.
type PRDetails struct {
	Owner       string
	Repo        string
	PullNumber  int
	Title       string
	Description string
}

// Repository returns the owner/name form used by the hosting API.
func (p PRDetails) Repository() string {
	return p.Owner + "/" + p.Repo
}

// Finding is one reviewer-produced observation before validation.
// LineNumber is 1-based and counts the hunk's lines as presented to
// the reviewer, not lines of the whole file.
type Finding struct {
	LineNumber int    `json:"lineNumber"`
	Comment    string `json:"reviewComment"`
}

// InBounds reports whether the finding's line number addresses a line
// of a hunk with lineCount presented lines. Out-of-bounds findings are
// discarded; the reviewer is an untrusted collaborator and invalid
// line numbers are expected, recoverable noise.
func (f Finding) InBounds(lineCount int) bool {
	return f.LineNumber >= 1 && f.LineNumber <= lineCount
}

// Comment is the final artifact submitted upstream. Created once per
// valid finding and never mutated afterwards.
type Comment struct {
	// Path is the post-change file path the comment attaches to.
	Path string `json:"path"`

	// Body is the reviewer's markdown comment text.
	Body string `json:"body"`

	// DiffPosition is the original diff-relative line number, kept
	// because some review-submission APIs address comments by diff
	// position rather than file line.
	DiffPosition int `json:"position"`

	// AbsoluteLine is the resolved line number in the full target file.
	AbsoluteLine int `json:"fullLineNumber"`
}
