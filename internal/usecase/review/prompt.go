package review

import (
	"fmt"
	"strings"

	"github.com/codereviewbot/reviewbot/internal/diff"
	"github.com/codereviewbot/reviewbot/internal/domain"
)

// BuildPrompt renders the reviewer prompt for one hunk. The reviewer
// answers in the reviews JSON schema with diff-relative line numbers,
// so the prompt shows the hunk exactly as parsed.
func BuildPrompt(pr domain.PRDetails, filePath string, hunk diff.Hunk, instructions string) string {
	var builder strings.Builder

	builder.WriteString("Your task is reviewing pull requests. Instructions:\n")
	builder.WriteString(`    - Provide the response in following JSON format:  {"reviews": [{"lineNumber":  <line_number>, "reviewComment": "<review comment>"}]}` + "\n")
	builder.WriteString("    - Provide comments and suggestions ONLY if there is something to improve, otherwise \"reviews\" should be an empty array.\n")
	builder.WriteString("    - Use GitHub Markdown in comments\n")
	builder.WriteString("    - Focus on bugs, security issues, and performance problems\n")
	builder.WriteString("    - IMPORTANT: NEVER suggest adding comments to the code\n")
	if instructions != "" {
		builder.WriteString(fmt.Sprintf("    - %s\n", instructions))
	}

	builder.WriteString(fmt.Sprintf("\nReview the following code diff in the file %q and take the pull request title and description into account when writing the response.\n", filePath))
	builder.WriteString(fmt.Sprintf("\nPull request title: %s\n", pr.Title))
	builder.WriteString("Pull request description:\n\n---\n")

	description := pr.Description
	if description == "" {
		description = "No description provided"
	}
	builder.WriteString(description)
	builder.WriteString("\n---\n\nGit diff to review:\n\n```diff\n")
	builder.WriteString(hunk.Text())
	builder.WriteString("\n```\n")

	return builder.String()
}
