package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// ollamaClient talks to a local or remote Ollama server through langchaingo.
type ollamaClient struct {
	llm     *ollama.LLM
	timeout time.Duration
	limiter *rate.Limiter
}

func newOllamaClient(cfg config.InferenceConfig) (*ollamaClient, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &ollamaClient{
		llm:     llm,
		timeout: cfg.Timeout,
		limiter: newLimiter(cfg.RequestsPerSecond),
	}, nil
}

func (c *ollamaClient) Name() string { return config.BackendOllama }

// Chat sends one system+user exchange and returns the raw model text.
func (c *ollamaClient) Chat(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	return callWithRetry(ctx, c.limiter, func(ctx context.Context) (string, error) {
		resp, err := c.llm.GenerateContent(ctx, messages)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("ollama request canceled: %w", err)
			}
			return "", &retryableError{err: fmt.Errorf("ollama request failed: %w", err)}
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("ollama returned no choices")
		}
		return strings.TrimSpace(resp.Choices[0].Content), nil
	})
}
