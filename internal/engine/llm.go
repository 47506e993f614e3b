package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// limiter throttles outbound model calls. Nil = unthrottled.
var limiter *rate.Limiter

func initLimiter() {
	if cfg.LLMRatePerMin <= 0 {
		limiter = nil
		return
	}
	limiter = rate.NewLimiter(rate.Limit(float64(cfg.LLMRatePerMin)/60.0), cfg.LLMRatePerMin)
}

// newChatModel builds an OpenAI-compatible chat client from the config.
func newChatModel(c *Config) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(c.LLMAPIKey),
		openai.WithModel(c.LLMModel),
	}
	if c.LLMAPIBase != "" {
		opts = append(opts, openai.WithBaseURL(c.LLMAPIBase))
	}
	if c.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(c.HTTPClient))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("chat model init: %w", err)
	}
	return model, nil
}

// Chat sends role-tagged messages to the configured model and returns the
// reply text. Any failure — missing key, network, provider — comes back
// wrapped in ErrModelUnavailable so screens can match it with errors.Is.
func Chat(ctx context.Context, msgs []llms.MessageContent) (string, error) {
	if cfg.ChatModel == nil {
		return "", fmt.Errorf("%w: no API key configured", ErrModelUnavailable)
	}
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	metrics.LLMCalls.Add(1)
	resp, err := cfg.ChatModel.GenerateContent(ctx, msgs,
		llms.WithTemperature(cfg.LLMTemperature),
		llms.WithMaxTokens(cfg.LLMMaxTokens),
	)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("%w: empty response", ErrModelUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
