package llm

import (
	"fmt"
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// NewProvider creates a backend provider from its configuration.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, fmt.Errorf("backend provider name is empty")

	default:
		return nil, fmt.Errorf("unknown backend provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewProviders builds the full consensus backend set from the model-level
// configuration. A misconfigured backend fails construction; the caller
// decides whether an empty set is acceptable.
func NewProviders(cfg model.LLMConfig) ([]Provider, error) {
	configs := ConfigsFromModel(cfg)
	providers := make([]Provider, 0, len(configs))
	for _, c := range configs {
		p, err := NewProvider(c)
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", c.Provider, err)
		}
		providers = append(providers, p)
	}
	return providers, nil
}
