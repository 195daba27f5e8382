package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// geminiClient talks to the Gemini API.
type geminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

func newGeminiClient(ctx context.Context, cfg config.InferenceConfig) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: newLimiter(cfg.RequestsPerSecond),
	}, nil
}

func (c *geminiClient) Name() string { return config.BackendGemini }

// Chat sends one system+user exchange and returns the raw model text.
func (c *geminiClient) Chat(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: user}}},
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	return callWithRetry(ctx, c.limiter, func(ctx context.Context) (string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("gemini request canceled: %w", err)
			}
			return "", &retryableError{err: fmt.Errorf("gemini API call failed: %w", err)}
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", fmt.Errorf("gemini returned an empty response")
		}
		return text, nil
	})
}
