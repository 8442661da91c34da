package llm

import (
	"context"

	"propertyinsights/config"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// NewBackend selects the backend named by cfg.LLMProvider.
func NewBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderGemini:
		b, err := NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.LLMProviderOpenAI:
		b, err := NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.LLMProviderLocal:
		logger.Warn("llm: no remote model configured; using local backend")
		return NewLocalBackend(), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}
}
