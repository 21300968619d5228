package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"combined-feed/internal/resilience/circuitbreaker"
	"combined-feed/internal/usecase/aggregate"
)

// Claude summarizes entries with Anthropic's Messages API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client anthropic.Client
	config Config
	engine *engine
}

// NewClaude creates a new Claude summarizer with the given API key.
func NewClaude(apiKey string, config Config, opts ...Option) *Claude {
	o := collectOptions(opts)

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(o.baseURL))
	}

	c := &Claude{
		client: anthropic.NewClient(clientOpts...),
		config: config,
	}
	c.engine = newEngine("claude", config, circuitbreaker.ClaudeAPIConfig(), o, c.complete)

	slog.Info("Initialized Claude summarizer with configuration",
		slog.String("model", config.Model),
		slog.Int("character_limit", config.GetCharacterLimit()))
	return c
}

// Summarize implements aggregate.Summarizer.
func (c *Claude) Summarize(ctx context.Context, title, excerpt string) (aggregate.Enrichment, error) {
	return c.engine.summarize(ctx, title, excerpt)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(float64(c.config.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", statusError("claude", apiErr.StatusCode, err)
		}
		return "", statusError("claude", 0, err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	return b.String(), nil
}
