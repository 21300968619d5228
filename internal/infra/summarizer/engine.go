package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"combined-feed/internal/observability/logging"
	"combined-feed/internal/resilience/circuitbreaker"
	"combined-feed/internal/resilience/retry"
	"combined-feed/internal/usecase/aggregate"
	"combined-feed/internal/utils/text"
)

// ErrCircuitOpen is returned while a provider's circuit breaker rejects calls.
var ErrCircuitOpen = errors.New("summarizer api unavailable: circuit breaker open")

// completeFunc sends one prompt to a provider and returns the raw reply text.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// Option customizes an external summarizer.
type Option func(*options)

type options struct {
	baseURL     string
	retryConfig *retry.Config
	metrics     SummaryMetricsRecorder
}

// WithBaseURL points the client at another endpoint, such as a proxy or a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *options) { o.retryConfig = &cfg }
}

// WithMetricsRecorder replaces the Prometheus recorder.
func WithMetricsRecorder(m SummaryMetricsRecorder) Option {
	return func(o *options) { o.metrics = m }
}

func collectOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = NewPrometheusSummaryMetrics()
	}
	return o
}

// engine carries the reliability wrapping shared by every provider:
// pacing, timeout, retry, circuit breaking, parsing, logging and metrics.
type engine struct {
	provider       string
	config         Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	limiter        *rate.Limiter
	metrics        SummaryMetricsRecorder
	complete       completeFunc
}

func newEngine(provider string, cfg Config, cb circuitbreaker.Config, o options, complete completeFunc) *engine {
	retryCfg := retry.AIAPIConfig()
	if o.retryConfig != nil {
		retryCfg = *o.retryConfig
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &engine{
		provider:       provider,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(cb),
		retryConfig:    retryCfg,
		limiter:        limiter,
		metrics:        o.metrics,
		complete:       complete,
	}
}

func (e *engine) summarize(ctx context.Context, title, excerpt string) (aggregate.Enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	var out aggregate.Enrichment

	retryErr := retry.WithBackoff(ctx, e.retryConfig, func() error {
		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s rate limiter: %w", e.provider, err)
		}

		result, err := circuitbreaker.Run(e.circuitBreaker, func() (aggregate.Enrichment, error) {
			return e.doSummarize(ctx, title, excerpt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				logging.FromContext(ctx).Warn("summarizer circuit breaker open, request rejected",
					slog.String("service", e.circuitBreaker.Name()),
					slog.String("state", e.circuitBreaker.State().String()))
				return ErrCircuitOpen
			}
			return err
		}

		out = result
		return nil
	})

	if retryErr != nil {
		return aggregate.Enrichment{}, fmt.Errorf("%s summarize failed: %w", e.provider, retryErr)
	}
	return out, nil
}

// doSummarize performs one call without retry or circuit breaker.
func (e *engine) doSummarize(ctx context.Context, title, excerpt string) (aggregate.Enrichment, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("provider", e.provider),
		slog.String("request_id", uuid.New().String()))

	prompt := buildPrompt(title, clampInput(ctx, e.provider, excerpt))

	start := time.Now()
	reply, err := e.complete(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		logger.Error("summarization failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return aggregate.Enrichment{}, err
	}

	out := ParseEnrichment(reply)
	if out.Summary == "" {
		return aggregate.Enrichment{}, aggregate.ErrEmptySummary
	}

	summaryLength := text.CountRunes(out.Summary)
	withinLimit := summaryLength <= e.config.GetCharacterLimit()

	logger.Debug("summarization completed",
		slog.Int("summary_length", summaryLength),
		slog.Int("tags", len(out.Tags)),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	if !withinLimit {
		logger.Warn("summary exceeds character limit",
			slog.Int("summary_length", summaryLength),
			slog.Int("limit", e.config.GetCharacterLimit()),
			slog.Int("excess", summaryLength-e.config.GetCharacterLimit()))
	}

	e.metrics.RecordLength(summaryLength)
	e.metrics.RecordDuration(duration)
	e.metrics.RecordCompliance(withinLimit)
	if !withinLimit {
		e.metrics.RecordLimitExceeded()
	}

	return out, nil
}

// statusError maps a provider HTTP status onto retry.HTTPError so that 429 and 5xx
// responses are retried and others are not.
func statusError(provider string, status int, err error) error {
	if status == 0 {
		return fmt.Errorf("%s api error: %w", provider, err)
	}
	return fmt.Errorf("%s api error: %w", provider, errors.Join(
		&retry.HTTPError{StatusCode: status, Message: err.Error()}, err))
}
