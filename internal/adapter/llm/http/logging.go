package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much reviewer output lands in logs.
// Responses carry user source code; log aggregators should not get the
// full text.
const MaxLoggedResponseLength = 200

// TruncateForLogging truncates a response string for logging purposes.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

var urlSecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`key=[^&"\s]+`),
	regexp.MustCompile(`apiKey=[^&"\s]+`),
	regexp.MustCompile(`api_key=[^&"\s]+`),
	regexp.MustCompile(`token=[^&"\s]+`),
	regexp.MustCompile(`access_token=[^&"\s]+`),
}

// RedactURLSecrets redacts API keys and tokens from URLs in error
// messages. Gemini puts the key in a query parameter, so any error
// containing the request URL would otherwise leak it.
//
//	input:  "https://api.example.com/endpoint?key=secret123&foo=bar"
//	output: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	result := text
	for _, re := range urlSecretPatterns {
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			for i := range match {
				if match[i] == '=' {
					return match[:i+1] + "[REDACTED]"
				}
			}
			return match
		})
	}
	return result
}
