// Package llm wraps the generative-model backends behind a single Provider
// interface. Backends answer one narrow question with deterministic settings:
// does a quotation semantically match its claimed source text.
package llm

import (
	"context"
	"fmt"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// Provider defines the interface for semantic-match backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// SemanticMatch asks the backend whether the evidence text is
	// semantically supported by the source text. Calls use zero temperature
	// for reproducibility.
	SemanticMatch(ctx context.Context, req MatchRequest) (*MatchResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// MatchRequest contains the input for one semantic-match query.
type MatchRequest struct {
	// Evidence is the quotation under validation.
	Evidence string

	// Source is the full source text the quotation is claimed from. Long
	// sources are truncated by the prompt builder to keep token use bounded.
	Source string

	// Model overrides the provider's configured model (optional).
	Model string

	// MaxTokens limits the verdict response length.
	MaxTokens int
}

// MatchResponse contains a backend's verdict.
type MatchResponse struct {
	// Match is the parsed verdict.
	Match bool

	// Raw is the unparsed backend output, retained for diagnostics.
	Raw string

	// Model is the model that produced the verdict.
	Model string

	// TokensUsed tracks token consumption where the backend reports it.
	TokensUsed int
}

// Config holds the configuration for one backend provider.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for verdict generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// maxSourceBytes caps how much source text goes into a single prompt.
const maxSourceBytes = 12000

const matchSystemPrompt = "You judge whether a quotation is semantically supported by a source text. Answer with strict JSON only."

// BuildMatchPrompt constructs the verdict prompt. The backend is instructed
// to answer with a single JSON object so the response can be parsed without
// guessing, though ParseVerdict still falls back to looser extraction.
func BuildMatchPrompt(evidence, source string) string {
	if len(source) > maxSourceBytes {
		source = source[:maxSourceBytes] + "\n[source truncated]"
	}

	return fmt.Sprintf(`Given the source text below, decide whether the quoted evidence is semantically supported by it. The evidence counts as supported when the source states the same information, even with different wording. It is NOT supported when it is absent, contradicted, or only loosely related.

SOURCE TEXT:
%s

EVIDENCE:
%q

Respond with exactly one JSON object and nothing else:
{"match": true} or {"match": false}`, source, evidence)
}

// ConfigsFromModel expands the model-level LLM configuration into one
// provider Config per backend, carrying the shared proxy settings through.
func ConfigsFromModel(cfg model.LLMConfig) []Config {
	out := make([]Config, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		out = append(out, Config{
			Provider:   b.Provider,
			Model:      b.Model,
			APIKey:     b.APIKey,
			BaseURL:    b.BaseURL,
			Timeout:    b.Timeout,
			MaxTokens:  b.MaxTokens,
			HTTPProxy:  cfg.HTTPProxy,
			HTTPSProxy: cfg.HTTPSProxy,
			NoProxy:    cfg.NoProxy,
		})
	}
	return out
}
