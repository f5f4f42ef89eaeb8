package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"aurabox/internal/ai/component"
	"aurabox/internal/config"
)

// NewProvider 根据配置创建 Provider
// 未配置 API key 时进入 mock 模式
func NewProvider(ctx context.Context, cfg *config.AIConfig) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("AI API key not configured, using mock mode")
		return NewMockProvider(), nil
	}

	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(cfg), nil
	case "openai", "azure", "ark":
		chatModel, err := component.NewChatModel(ctx, cfg, component.Params{
			Temperature: FixedGeneration.Temperature,
			TopP:        FixedGeneration.TopP,
			MaxTokens:   FixedGeneration.MaxOutputTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewEinoProvider(cfg.Provider, chatModel), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
