package llm

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		minTokens int
		maxTokens int
	}{
		{
			name:      "empty string",
			text:      "",
			minTokens: 0,
			maxTokens: 0,
		},
		{
			name:      "single word",
			text:      "hello",
			minTokens: 1,
			maxTokens: 2,
		},
		{
			name:      "hunk-like text",
			text:      "+ func main() {\n+\tfmt.Println(\"Hello, World!\")\n+ }",
			minTokens: 10,
			maxTokens: 25,
		},
		{
			name:      "longer text",
			text:      strings.Repeat("This is a test sentence. ", 100),
			minTokens: 500,
			maxTokens: 700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.text)
			if got < tt.minTokens || got > tt.maxTokens {
				t.Errorf("EstimateTokens() = %d, want between %d and %d",
					got, tt.minTokens, tt.maxTokens)
			}
		})
	}
}

func TestEstimateTokens_Consistency(t *testing.T) {
	// Same input should always produce same output
	text := "func EstimateTokens(text string) int { return len(text) / 4 }"

	first := EstimateTokens(text)
	for i := 0; i < 10; i++ {
		got := EstimateTokens(text)
		if got != first {
			t.Errorf("EstimateTokens() inconsistent: got %d, want %d", got, first)
		}
	}
}
