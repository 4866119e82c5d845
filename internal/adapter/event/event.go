// Package event parses GitHub Actions event payloads. In CI the
// workflow runner writes the triggering event as JSON to the file
// named by GITHUB_EVENT_PATH.
package event

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// EnvEventPath is the environment variable naming the payload file.
const EnvEventPath = "GITHUB_EVENT_PATH"

// Trigger identifies the pull request a workflow run is about.
type Trigger struct {
	Owner      string
	Repo       string
	PullNumber int
}

// payload covers the two event shapes that carry a PR number: pull
// request events put it at the top level, issue_comment events nest
// it under issue (and only count when the issue is a PR).
type payload struct {
	Number     int `json:"number"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	Issue struct {
		Number      int              `json:"number"`
		PullRequest *json.RawMessage `json:"pull_request"`
	} `json:"issue"`
}

// FromEnv reads the payload file named by GITHUB_EVENT_PATH.
func FromEnv() (Trigger, error) {
	path := os.Getenv(EnvEventPath)
	if path == "" {
		return Trigger{}, fmt.Errorf("%s is not set", EnvEventPath)
	}
	return FromFile(path)
}

// FromFile parses the event payload at the given path.
func FromFile(path string) (Trigger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trigger{}, fmt.Errorf("read event payload: %w", err)
	}
	return Parse(data)
}

// Parse extracts the PR trigger from an event payload.
func Parse(data []byte) (Trigger, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Trigger{}, fmt.Errorf("parse event payload: %w", err)
	}

	owner, repo, err := splitFullName(p.Repository.FullName)
	if err != nil {
		return Trigger{}, err
	}

	number := p.Number
	if number == 0 {
		if p.Issue.PullRequest == nil {
			return Trigger{}, fmt.Errorf("event payload does not reference a pull request")
		}
		number = p.Issue.Number
	}
	if number <= 0 {
		return Trigger{}, fmt.Errorf("event payload has no pull request number")
	}

	return Trigger{Owner: owner, Repo: repo, PullNumber: number}, nil
}

func splitFullName(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository full name %q", fullName)
	}
	return parts[0], parts[1], nil
}
