package ai

import (
	"fmt"

	"assistant-hub/internal/config"
	"assistant-hub/internal/domain/ports/adapter"
)

// NewFromConfig picks the provider implementation by configuration.
func NewFromConfig(cfg config.AIConfig) (adapter.AssistantsAPI, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAdapter(cfg.OpenAIKey, cfg.DefaultModel, cfg.BaseURL)
	case "noop", "":
		return NewNoopAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
