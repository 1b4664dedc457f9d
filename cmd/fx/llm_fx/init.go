package llm_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"lotus/internal/config"
	"lotus/pkg/utils"
)

var Module = fx.Provide(ProvideCompletionClient)

// ProvideCompletionClient picks the provider from the configuration. Without
// an API key every call fails fast and planning uses the offline fallback.
func ProvideCompletionClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.CompletionClient, error) {
	llm := cfg.LLM
	if !llm.Configured() {
		logger.Warn("LLM_API_KEY is not set; itineraries will be generated offline")
		return utils.UnconfiguredCompletionClient{}, nil
	}

	logger.Info("initializing completion client",
		zap.String("provider", llm.Provider),
		zap.String("model", llm.Model))

	var client utils.CompletionClient
	switch llm.Provider {
	case config.ProviderGemini:
		gemini, err := utils.NewGeminiCompletionClient(context.Background(), llm.APIKey, llm.Model, llm.Timeout)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return gemini.Close() },
		})
		client = gemini
	default:
		client = utils.NewOpenAICompletionClient(llm.APIKey, llm.BaseURL, llm.Model, llm.Timeout)
	}

	if llm.CacheTTL > 0 {
		client = utils.NewCachedCompletionClient(client, llm.CacheTTL)
	}
	return client, nil
}
