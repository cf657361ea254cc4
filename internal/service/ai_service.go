package service

import (
	"codementor_backend/internal/config"
	"codementor_backend/pkg/llm"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"codementor_backend/pkg/tracing"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Completer 外部文本补全能力，要求返回单个 JSON 对象的原始文本
type Completer interface {
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}

// AIService 持有当前 provider，配置热加载时整体替换
type AIService struct {
	mu       sync.RWMutex
	provider llm.Provider
	config   config.AIConfig
}

// NewAIService 按配置创建 provider；未配置或缺少 Key 时 provider 为空，所有调用直接返回 unavailable
func NewAIService(ctx context.Context, cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.Reload(ctx, cfg)
	return s
}

func NewAIServiceWithProvider(p llm.Provider, cfg config.AIConfig) *AIService {
	return &AIService{provider: p, config: cfg}
}

func (s *AIService) Reload(ctx context.Context, cfg config.AIConfig) {
	p, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			logger.Log.Warn("AI provider not configured, guidance will use fallback content",
				zap.String("provider", cfg.Provider))
		} else {
			logger.Log.Error("Failed to create AI provider", zap.String("provider", cfg.Provider), zap.Error(err))
		}
		p = nil
	} else {
		logger.Log.Info("AI provider ready", zap.String("provider", p.Name()), zap.String("model", p.ModelID()))
	}

	s.mu.Lock()
	s.provider = p
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) current() (llm.Provider, config.AIConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider, s.config
}

// Available 当前是否存在可用的 provider
func (s *AIService) Available() bool {
	p, _ := s.current()
	return p != nil
}

func (s *AIService) CompleteJSON(ctx context.Context, system, prompt string) (string, error) {
	p, cfg := s.current()
	if p == nil {
		return "", &ExternalCallError{Kind: ExternalUnavailable, Err: llm.ErrNotConfigured}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	ctx, span := tracing.Tracer().Start(ctx, "ai.complete")
	start := time.Now()

	req := llm.UserPrompt(system, prompt, true)
	req.MaxTokens = cfg.MaxTokens

	resp, err := p.Generate(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = "error"
		err = classifyCompletionError(err)
	} else if strings.TrimSpace(resp.Content) == "" {
		outcome = "empty"
		err = &ExternalCallError{Kind: ExternalEmpty, Err: llm.ErrEmptyResponse}
	}

	monitoring.AICompletionDuration.WithLabelValues(p.Name(), outcome).Observe(time.Since(start).Seconds())
	tracing.EndSpan(span, err)

	if err != nil {
		return "", err
	}

	logger.Log.Debug("AI completion finished",
		zap.String("provider", p.Name()),
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)
	return resp.Content, nil
}

func classifyCompletionError(err error) error {
	if errors.Is(err, llm.ErrEmptyResponse) {
		return &ExternalCallError{Kind: ExternalEmpty, Err: err}
	}
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return &ExternalCallError{Kind: ExternalMalformed, Err: err}
	}
	return &ExternalCallError{Kind: ExternalUnavailable, Err: err}
}
