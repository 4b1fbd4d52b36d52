package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/MajorE-Garage/arbshift/internal/model"
)

// reviewBatchLimit caps how many strings go into one triage request.
const reviewBatchLimit = 50

// NewProvider creates a provider from configuration. An empty provider
// name means the reviewer is disabled and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai", "ollama":
		// Ollama and other local servers speak the same API through
		// the BaseURL override.
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// Reviewer wraps a provider with the advisory-only contract.
type Reviewer struct {
	provider Provider
	config   Config
}

// NewReviewer creates a reviewer, or nil when no provider is configured.
func NewReviewer(config Config) (*Reviewer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return &Reviewer{provider: provider, config: config}, nil
}

// GenerateAdvice triages the manual-review and unresolved records and
// returns advisory notes for the report.
func (r *Reviewer) GenerateAdvice(ctx context.Context, records []*model.StringRecord) (*model.ReviewAdvice, error) {
	advice := &model.ReviewAdvice{
		Enabled:  true,
		Provider: r.provider.Name(),
		Model:    r.config.Model,
	}

	var values []string
	for _, rec := range records {
		if rec.Category != model.CategoryManualReview && rec.Category != model.CategoryUnresolved {
			continue
		}
		values = append(values, rec.Value)
	}
	if len(values) == 0 {
		advice.AdviceMD = "No deferred or unresolved strings to review."
		return advice, nil
	}
	if len(values) > reviewBatchLimit {
		advice.Warnings = append(advice.Warnings,
			fmt.Sprintf("only the first %d of %d strings were reviewed", reviewBatchLimit, len(values)))
		values = values[:reviewBatchLimit]
	}

	resp, err := r.provider.Review(ctx, ReviewRequest{
		Values:    values,
		Model:     r.config.Model,
		MaxTokens: r.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	advice.Model = resp.Model
	advice.AdviceMD = resp.AdviceMD
	return advice, nil
}
