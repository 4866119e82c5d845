package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID(t *testing.T) {
	ts := time.Date(2025, 10, 21, 14, 30, 52, 0, time.UTC)

	id := GenerateRunID(ts, "octocat/hello", 7)

	assert.True(t, strings.HasPrefix(id, "run-20251021T143052Z-"), "got %s", id)
	assert.Len(t, id, len("run-20251021T143052Z-")+6)
}

func TestGenerateRunID_UniquePerNanosecond(t *testing.T) {
	base := time.Date(2025, 10, 21, 14, 30, 52, 0, time.UTC)

	a := GenerateRunID(base, "octocat/hello", 7)
	b := GenerateRunID(base.Add(time.Nanosecond), "octocat/hello", 7)

	assert.NotEqual(t, a, b)
}
