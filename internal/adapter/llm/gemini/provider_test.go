package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codereviewbot/reviewbot/internal/adapter/llm/gemini"
	"github.com/codereviewbot/reviewbot/internal/config"
)

func TestProvider_ReviewParsesFindings(t *testing.T) {
	body := "```json\n{\"reviews\": [{\"lineNumber\": 2, \"reviewComment\": \"Possible nil dereference\"}]}\n```"

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(successResponse(body))
	})
	provider := gemini.NewProvider(client)

	findings, err := provider.Review(context.Background(), "prompt")

	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].LineNumber)
	assert.Equal(t, "Possible nil dereference", findings[0].Comment)
}

func TestProvider_ReviewEmptyVerdict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(successResponse(`{"reviews": []}`))
	})
	provider := gemini.NewProvider(client)

	findings, err := provider.Review(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestProvider_ReviewUnparseableTextIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(successResponse("I could not find any issues, great work!"))
	})
	provider := gemini.NewProvider(client)

	findings, err := provider.Review(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestProvider_Name(t *testing.T) {
	provider := gemini.NewProvider(gemini.NewHTTPClient(config.GeminiConfig{
		APIKey: "k",
		Model:  "gemini-2.0-flash-001",
	}, config.HTTPConfig{}))
	assert.Equal(t, "gemini", provider.Name())
}
