package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"combined-feed/internal/resilience/circuitbreaker"
	"combined-feed/internal/usecase/aggregate"
)

// OpenAI summarizes entries with OpenAI's chat completions API.
// It includes circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client *openai.Client
	config Config
	engine *engine
}

// NewOpenAI creates a new OpenAI summarizer with the given API key.
func NewOpenAI(apiKey string, config Config, opts ...Option) *OpenAI {
	o := collectOptions(opts)

	clientCfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		clientCfg.BaseURL = o.baseURL
	}

	s := &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
	}
	s.engine = newEngine("openai", config, circuitbreaker.OpenAIAPIConfig(), o, s.complete)

	slog.Info("Initialized OpenAI summarizer with configuration",
		slog.String("model", config.Model),
		slog.Int("character_limit", config.GetCharacterLimit()))
	return s
}

// Summarize implements aggregate.Summarizer.
func (s *OpenAI) Summarize(ctx context.Context, title, excerpt string) (aggregate.Enrichment, error) {
	return s.engine.summarize(ctx, title, excerpt)
}

func (s *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError("openai", apiErr.HTTPStatusCode, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", statusError("openai", reqErr.HTTPStatusCode, err)
		}
		return "", statusError("openai", 0, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
