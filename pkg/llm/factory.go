package llm

import (
	"codementor_backend/internal/config"
	"context"
	"fmt"
)

// NewProvider 根据配置创建 provider。provider 为 none 或缺少 API Key 时返回 ErrNotConfigured，
// 调用方据此直接走兜底内容
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Provider {
	case "openai", "":
		p, err = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "anthropic":
		key := cfg.AnthropicAPIKey
		if key == "" {
			key = cfg.APIKey
		}
		p, err = NewAnthropicProvider(key, cfg.BaseURL, cfg.Model)
	case "gemini":
		key := cfg.GeminiAPIKey
		if key == "" {
			key = cfg.APIKey
		}
		p, err = NewGeminiProvider(ctx, key, cfg.Model)
	case "mock":
		return NewMockProvider(), nil
	case "none":
		return nil, ErrNotConfigured
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(p, DefaultRetryConfig(cfg.RetryAttempts)), nil
}
