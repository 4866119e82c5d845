package http

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/codereviewbot/reviewbot/internal/domain"
)

// The lazy match stops at the first closing fence, which keeps prose
// or a second fenced block after the payload out of the extraction.
// When the payload itself contains fenced examples the first fence
// closes too early; the greedy match then recovers the full block.
var (
	jsonBlockLazyRegex   = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	jsonBlockGreedyRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")
)

// ExtractJSONFromMarkdown extracts JSON from a markdown code block.
// Models are asked for raw JSON but frequently wrap it in ```json
// fences anyway. Returns the input unchanged (trimmed) when no fence
// is present.
func ExtractJSONFromMarkdown(text string) string {
	if matches := jsonBlockLazyRegex.FindStringSubmatch(text); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	if matches := jsonBlockGreedyRegex.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

// reviewsPayload is the shape the reviewer is instructed to return.
type reviewsPayload struct {
	Reviews []reviewEntry `json:"reviews"`
}

type reviewEntry struct {
	LineNumber *int    `json:"lineNumber"`
	Comment    *string `json:"reviewComment"`
}

// ParseFindings parses reviewer output into findings.
//
// The reviewer is an untrusted collaborator: a payload that is not
// JSON, or that lacks the "reviews" key, yields an empty result rather
// than an error worth failing a hunk over. Entries missing either
// field are dropped; the returned count of dropped entries lets the
// caller log the waste.
func ParseFindings(text string) (findings []domain.Finding, dropped int) {
	jsonText := ExtractJSONFromMarkdown(text)

	var payload reviewsPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, 0
	}

	for _, entry := range payload.Reviews {
		if entry.LineNumber == nil || entry.Comment == nil || *entry.Comment == "" {
			dropped++
			continue
		}
		findings = append(findings, domain.Finding{
			LineNumber: *entry.LineNumber,
			Comment:    *entry.Comment,
		})
	}

	return findings, dropped
}
