package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateRunID creates a unique, time-ordered run ID.
// Format: run-<timestamp>-<hash>
// Example: run-20251021T143052Z-a3f9c2
func GenerateRunID(timestamp time.Time, repository string, pullNumber int) string {
	// Use UTC timestamp in ISO format for consistent ordering
	ts := timestamp.UTC().Format("20060102T150405Z")

	// Create short hash from run identity and nanoseconds for uniqueness
	input := fmt.Sprintf("%s|%d|%d", repository, pullNumber, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	shortHash := hex.EncodeToString(hash[:3]) // 6 character hash

	return fmt.Sprintf("run-%s-%s", ts, shortHash)
}
