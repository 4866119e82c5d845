package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	llmhttp "github.com/codereviewbot/reviewbot/internal/adapter/llm/http"
	"github.com/codereviewbot/reviewbot/internal/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 60 * time.Second
	providerName   = "gemini"
)

// HTTPClient is an HTTP client for the Google Gemini API.
type HTTPClient struct {
	apiKey    string
	model     string
	baseURL   string
	retryConf llmhttp.RetryConfig
	client    *http.Client

	logger llmhttp.Logger
}

// NewHTTPClient creates a new Gemini HTTP client.
func NewHTTPClient(cfg config.GeminiConfig, httpCfg config.HTTPConfig) *HTTPClient {
	timeout := llmhttp.ParseTimeout(cfg.Timeout, httpCfg.Timeout, defaultTimeout)

	return &HTTPClient{
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		baseURL:   defaultBaseURL,
		retryConf: llmhttp.BuildRetryConfig(cfg, httpCfg),
		client:    &http.Client{Timeout: timeout},
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetLogger sets the logger for this client.
func (c *HTTPClient) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// CallOptions contains options for the API call.
type CallOptions struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// APIResponse is the parsed response from the API.
type APIResponse struct {
	Text         string
	TokensIn     int
	TokensOut    int
	FinishReason string
}

// Call makes a request to the Gemini generateContent API.
func (c *HTTPClient) Call(ctx context.Context, prompt string, options CallOptions) (*APIResponse, error) {
	startTime := time.Now()

	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:    providerName,
			Model:       c.model,
			Timestamp:   startTime,
			PromptChars: len(prompt),
			APIKey:      c.apiKey,
		})
	}

	reqBody := GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}

	if options.Temperature > 0 || options.TopP > 0 || options.MaxTokens > 0 {
		reqBody.GenerationConfig = &GenerationConfig{
			Temperature:     options.Temperature,
			TopP:            options.TopP,
			MaxOutputTokens: options.MaxTokens,
			CandidateCount:  1,
		}
	}

	// Block only high severity so ordinary code diffs pass the filters.
	reqBody.SafetySettings = []SafetySetting{
		{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
		{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
		{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
		{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var resp *http.Response
	err = llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		retryReq, reqErr := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}
		retryReq.Header.Set("Content-Type", "application/json")

		var callErr error
		resp, callErr = c.client.Do(retryReq)
		if callErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeTimeout,
				Message:   llmhttp.RedactURLSecrets(callErr.Error()),
				Retryable: true,
				Provider:  providerName,
			}
		}

		if resp.StatusCode >= 400 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return c.handleErrorResponse(resp.StatusCode, bodyBytes)
		}

		return nil
	}, c.retryConf)

	duration := time.Since(startTime)

	if err != nil {
		if c.logger != nil {
			var httpErr *llmhttp.Error
			if errors.As(err, &httpErr) {
				c.logger.LogError(ctx, llmhttp.ErrorLog{
					Provider:   providerName,
					Model:      c.model,
					Timestamp:  time.Now(),
					Duration:   duration,
					Error:      err,
					ErrorType:  httpErr.Type,
					StatusCode: httpErr.StatusCode,
					Retryable:  httpErr.Retryable,
				})
			}
		}
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := genResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return nil, &llmhttp.Error{
			Type:      llmhttp.ErrTypeContentFiltered,
			Message:   "content blocked by safety filters",
			Retryable: false,
			Provider:  providerName,
		}
	}

	var textParts []string
	for _, part := range candidate.Content.Parts {
		textParts = append(textParts, part.Text)
	}

	response := &APIResponse{
		Text:         strings.Join(textParts, ""),
		TokensIn:     genResp.UsageMetadata.PromptTokenCount,
		TokensOut:    genResp.UsageMetadata.CandidatesTokenCount,
		FinishReason: candidate.FinishReason,
	}

	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:   providerName,
			Model:      c.model,
			Timestamp:  time.Now(),
			Duration:   duration,
			TokensIn:   response.TokensIn,
			TokensOut:  response.TokensOut,
			StatusCode: 200,
		})
	}

	return response, nil
}

// handleErrorResponse maps HTTP status codes to typed errors, pulling
// the message out of Gemini's error envelope when present.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return llmhttp.FromStatusCode(providerName, statusCode, message)
}
