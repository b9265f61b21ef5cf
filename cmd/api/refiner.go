package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"luxeprompt/internal/infra"
	"luxeprompt/internal/providers/prompt"
)

func newRefiner(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (prompt.Refiner, error) {
	static := prompt.NewStaticRefiner()
	onFallback := func(provider string) func(string, error) {
		return func(reason string, err error) {
			logger.Warn().Err(err).Str("provider", provider).Str("reason", reason).Msg("refiner fallback")
		}
	}

	switch cfg.RefineProvider {
	case infra.RefineProviderStatic:
		return static, nil
	case infra.RefineProviderOpenAI:
		r, err := prompt.NewOpenAIRefiner(prompt.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			Fallback:     static,
			OnFallback:   onFallback(prompt.ProviderOpenAI),
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("provider", prompt.ProviderOpenAI).Str("reason", reason).Str("detail", detail).Msg("refiner warning")
			},
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case infra.RefineProviderGemini:
		r, err := prompt.NewGeminiRefiner(ctx, prompt.GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			Fallback:   static,
			OnFallback: onFallback(prompt.ProviderGemini),
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown refine provider %q", cfg.RefineProvider)
	}
}
