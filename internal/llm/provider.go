// Package llm provides the optional advisory reviewer. It asks a language
// model to triage strings the rule pipeline deferred to a human. The
// output is advice attached to the report; it never changes a category, a
// key, the catalog, or a source file.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

// Provider is one reviewing backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Review triages the given strings and returns advisory notes.
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)
}

// ReviewRequest carries the strings deferred to manual review plus any
// unresolved anomalies.
type ReviewRequest struct {
	// Values are the string values to triage, in report order.
	Values []string

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model is the provider-specific model name.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// ReviewResponse is the provider's advisory output.
type ReviewResponse struct {
	AdviceMD   string
	Model      string
	TokensUsed int
}

// Config holds reviewer configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled). A BaseURL override
	// reaches any OpenAI-compatible server, including local Ollama.
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout   int // seconds
	MaxTokens int

	// RequestsPerMinute bounds calls to the provider API.
	RequestsPerMinute float64
}

// ConfigFromModel converts the app-level LLM config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxTokens:         mc.MaxTokens,
		RequestsPerMinute: mc.RequestsPerMinute,
	}
}

// BuildPrompt constructs the default triage prompt.
func BuildPrompt(values []string) string {
	var sb strings.Builder
	sb.WriteString(`You are reviewing strings an i18n tool deferred to a human because they use concatenation, interpolation, or matched no classification rule.

RULES:
1. For each string say whether it LOOKS user-facing or technical, in one short line.
2. Suggest how to restructure concatenated strings into a single translatable message with placeholders.
3. Do NOT translate anything. Do NOT invent strings not in the list.

Strings:
`)
	for i, v := range values {
		fmt.Fprintf(&sb, "%d. %q\n", i+1, v)
	}
	return sb.String()
}
