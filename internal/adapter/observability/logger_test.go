package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmhttp "github.com/codereviewbot/reviewbot/internal/adapter/llm/http"
	"github.com/codereviewbot/reviewbot/internal/adapter/observability"
)

func TestNewReviewLogger(t *testing.T) {
	llmLogger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	reviewLogger := observability.NewReviewLogger(llmLogger)

	require.NotNil(t, reviewLogger)
}

func TestReviewLogger_LogWarning(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	llmLogger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	reviewLogger := observability.NewReviewLogger(llmLogger)

	reviewLogger.LogWarning(context.Background(), "discarding out-of-range finding", map[string]interface{}{
		"file":       "a.txt",
		"lineNumber": 9,
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "discarding out-of-range finding")
	assert.Contains(t, output, "a.txt")
}

func TestReviewLogger_LogInfo(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	llmLogger := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	reviewLogger := observability.NewReviewLogger(llmLogger)

	reviewLogger.LogInfo(context.Background(), "review completed", map[string]interface{}{
		"comments": 23,
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "review completed")
}
