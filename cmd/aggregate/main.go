// Command aggregate runs one aggregation pass: it reads every configured feed,
// enriches the new entries and writes the combined RSS document.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"combined-feed/internal/config"
	"combined-feed/internal/infra/feedwriter"
	"combined-feed/internal/infra/fetcher"
	"combined-feed/internal/infra/scraper"
	"combined-feed/internal/infra/summarizer"
	"combined-feed/internal/observability/logging"
	"combined-feed/internal/observability/metrics"
	"combined-feed/internal/usecase/aggregate"
	"combined-feed/internal/usecase/publish"
	pkgconfig "combined-feed/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	runID := uuid.NewString()
	logger := logging.WithRunID(logging.NewLogger(), runID)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	configMetrics := pkgconfig.NewConfigMetrics("aggregator")
	configMetrics.MustRegister(prometheus.DefaultRegisterer)

	cfg, err := config.Load(logger, configMetrics)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		return 1
	}
	logger.Info("configuration loaded",
		slog.Int("sources", len(cfg.Sources)),
		slog.String("output", cfg.OutputPath),
		slog.Int("parallelism", cfg.Parallelism),
		slog.Bool("llm_summary", cfg.UseLLMSummary))

	stats, err := aggregateOnce(ctx, logger, cfg)
	if err != nil {
		logger.Error("aggregation failed", slog.Any("error", err))
		return 1
	}

	metrics.RecordRunCompleted(stats.Records, time.Since(start))
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("failed to write metrics textfile", slog.Any("error", err))
		}
	}

	logger.Info("run finished",
		slog.Int("records", stats.Records),
		slog.Int("failed_sources", stats.FailedSources),
		slog.Duration("duration", time.Since(start)))
	return 0
}

// aggregateOnce runs one pass over cfg.Sources and writes the feed to cfg.OutputPath.
// Only invalid fetcher settings and a failed write are returned as errors.
func aggregateOnce(ctx context.Context, logger *slog.Logger, cfg config.AggregatorConfig) (aggregate.RunStats, error) {
	resolver, err := createResolver(cfg)
	if err != nil {
		return aggregate.RunStats{}, err
	}
	enricher := aggregate.NewEnricher(createSummarizer(logger, cfg), aggregate.NewLocalSummarizer(cfg.SummaryChars))

	logger.Info("pipeline ready",
		slog.Int("max_article_chars", resolver.MaxChars()),
		slog.String("summary_mode", enricher.Mode()))

	feeds := scraper.NewRSSFetcher(scraper.NewHTTPClient(cfg.FeedTimeout))
	aggregator := aggregate.NewAggregator(feeds, resolver, enricher,
		aggregate.WithParallelism(cfg.Parallelism))

	records, stats := aggregator.Run(ctx, cfg.Sources)

	assembler := publish.NewAssembler(cfg.Channel, feedwriter.NewRSSWriter(cfg.OutputPath))
	if err := assembler.Publish(ctx, records); err != nil {
		return stats, err
	}
	return stats, nil
}

func createResolver(cfg config.AggregatorConfig) (*aggregate.ContentResolver, error) {
	articleCfg := fetcher.DefaultConfig()
	articleCfg.Timeout = cfg.ArticleTimeout
	articleCfg.DenyPrivateIPs = cfg.DenyPrivateIPs
	if err := articleCfg.Validate(); err != nil {
		return nil, fmt.Errorf("article fetch config: %w", err)
	}

	pageCfg := fetcher.PageConfig()
	pageCfg.Timeout = cfg.PageTimeout
	pageCfg.DenyPrivateIPs = cfg.DenyPrivateIPs
	if err := pageCfg.Validate(); err != nil {
		return nil, fmt.Errorf("page fetch config: %w", err)
	}

	return aggregate.NewContentResolver(
		fetcher.NewReadabilityFetcher(articleCfg),
		fetcher.NewPageFetcher(pageCfg),
		cfg.MaxArticleChars,
	), nil
}

// createSummarizer returns the external summarizer for the configured provider,
// or nil for local mode. An unusable provider configuration degrades to local mode.
func createSummarizer(logger *slog.Logger, cfg config.AggregatorConfig) aggregate.Summarizer {
	if !cfg.UseLLMSummary {
		logger.Info("Using local summaries", slog.Int("summary_chars", cfg.SummaryChars))
		return nil
	}

	sc := summarizer.DefaultOpenAIConfig()
	if cfg.LLMProvider == config.ProviderClaude {
		sc = summarizer.DefaultClaudeConfig()
	}
	if cfg.LLMModel != "" {
		sc.Model = cfg.LLMModel
	}
	sc.CharacterLimit = cfg.SummaryChars
	sc.Timeout = cfg.SummaryTimeout

	if err := sc.Validate(); err != nil {
		logger.Warn("invalid summarizer configuration, using local summaries",
			slog.String("provider", cfg.LLMProvider),
			slog.Any("error", err))
		return nil
	}

	switch cfg.LLMProvider {
	case config.ProviderClaude:
		logger.Info("Using Claude API for summarization",
			slog.String("model", sc.Model),
			slog.Int("character_limit", sc.GetCharacterLimit()))
		return summarizer.NewClaude(cfg.AnthropicAPIKey, sc)
	default:
		logger.Info("Using OpenAI API for summarization",
			slog.String("model", sc.Model),
			slog.Int("character_limit", sc.GetCharacterLimit()))
		return summarizer.NewOpenAI(cfg.OpenAIAPIKey, sc)
	}
}
