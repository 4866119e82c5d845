package http

import (
	"time"

	"github.com/codereviewbot/reviewbot/internal/config"
)

// ParseTimeout parses a timeout with fallback chain: provider override
// > global > default. Negative durations are rejected (they would
// panic inside http.Client).
func ParseTimeout(providerOverride *string, globalTimeout string, defaultVal time.Duration) time.Duration {
	if d, ok := parseOverride(providerOverride); ok {
		return d
	}
	if globalTimeout != "" {
		if d, err := time.ParseDuration(globalTimeout); err == nil && d >= 0 {
			return d
		}
	}
	if defaultVal < 0 {
		return 60 * time.Second
	}
	return defaultVal
}

// BuildRetryConfig creates a RetryConfig from the Gemini provider
// overrides layered over the global HTTP config.
func BuildRetryConfig(provider config.GeminiConfig, httpCfg config.HTTPConfig) RetryConfig {
	maxRetries := httpCfg.MaxRetries
	if provider.MaxRetries != nil {
		maxRetries = *provider.MaxRetries
	}

	multiplier := httpCfg.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: parseDuration(provider.InitialBackoff, httpCfg.InitialBackoff, 2*time.Second),
		MaxBackoff:     parseDuration(provider.MaxBackoff, httpCfg.MaxBackoff, 32*time.Second),
		Multiplier:     multiplier,
	}
}

// BuildGlobalRetryConfig creates a RetryConfig from the global HTTP
// config only, for clients without provider overrides (GitHub).
func BuildGlobalRetryConfig(httpCfg config.HTTPConfig) RetryConfig {
	return BuildRetryConfig(config.GeminiConfig{}, httpCfg)
}

func parseDuration(override *string, global string, defaultVal time.Duration) time.Duration {
	if d, ok := parseOverride(override); ok {
		return d
	}
	if global != "" {
		if d, err := time.ParseDuration(global); err == nil && d >= 0 {
			return d
		}
	}
	if defaultVal < 0 {
		return 2 * time.Second
	}
	return defaultVal
}

func parseOverride(override *string) (time.Duration, bool) {
	if override == nil || *override == "" {
		return 0, false
	}
	d, err := time.ParseDuration(*override)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
