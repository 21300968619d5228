// Package config loads the aggregator's run configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML file
// named by AGGREGATOR_CONFIG, and environment variable overrides. Invalid
// environment values fall back to the layer below with a logged warning; invalid
// file contents and a failed final Validate are fatal.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"combined-feed/internal/domain/entity"
	pkgconfig "combined-feed/pkg/config"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Environment variable names.
const (
	EnvConfigFile      = "AGGREGATOR_CONFIG"
	EnvSources         = "FEED_SOURCES"
	EnvOutputPath      = "OUTPUT_PATH"
	EnvMaxArticleChars = "MAX_ARTICLE_CHARS"
	EnvSummaryChars    = "SUMMARY_CHARS"
	EnvUseLLMSummary   = "USE_LLM_SUMMARY"
	EnvLLMProvider     = "LLM_PROVIDER"
	EnvLLMModel        = "LLM_MODEL"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvFeedTimeout     = "FEED_TIMEOUT"
	EnvArticleTimeout  = "ARTICLE_TIMEOUT"
	EnvPageTimeout     = "PAGE_TIMEOUT"
	EnvSummaryTimeout  = "SUMMARY_TIMEOUT"
	EnvParallelism     = "PARALLELISM"
	EnvMetricsTextfile = "METRICS_TEXTFILE"
	EnvDenyPrivateIPs  = "DENY_PRIVATE_IPS"
)

const maxParallelism = 64

// ErrConfigFile indicates the YAML configuration file could not be read or parsed.
var ErrConfigFile = errors.New("config file")

// AggregatorConfig is the immutable configuration of one run.
type AggregatorConfig struct {
	Sources         []string       `yaml:"sources"`
	OutputPath      string         `yaml:"output_path"`
	MaxArticleChars int            `yaml:"max_article_chars"`
	SummaryChars    int            `yaml:"summary_chars"`
	UseLLMSummary   bool           `yaml:"use_llm_summary"`
	LLMProvider     string         `yaml:"llm_provider"`
	LLMModel        string         `yaml:"llm_model"`
	Channel         entity.Channel `yaml:"channel"`
	FeedTimeout     time.Duration  `yaml:"feed_timeout"`
	ArticleTimeout  time.Duration  `yaml:"article_timeout"`
	PageTimeout     time.Duration  `yaml:"page_timeout"`
	SummaryTimeout  time.Duration  `yaml:"summary_timeout"`
	Parallelism     int            `yaml:"parallelism"`
	MetricsTextfile string         `yaml:"metrics_textfile"`
	DenyPrivateIPs  bool           `yaml:"deny_private_ips"`

	// Credentials come from the environment only.
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`
}

// DefaultSources is the built-in list of crypto news feeds.
var DefaultSources = []string{
	"https://www.coindesk.com/arc/outboundfeeds/rss/",
	"https://cryptobriefing.com/feed/",
	"https://decrypt.co/feed",
	"https://www.theblock.co/feed",
	"https://coinsbench.com/feed",
	"https://www.producthunt.com/feed/tag/crypto",
}

// Default returns the built-in configuration.
func Default() AggregatorConfig {
	sources := make([]string, len(DefaultSources))
	copy(sources, DefaultSources)

	return AggregatorConfig{
		Sources:         sources,
		OutputPath:      "combined_crypto_companies.xml",
		MaxArticleChars: 400,
		SummaryChars:    300,
		UseLLMSummary:   false,
		LLMProvider:     ProviderOpenAI,
		Channel: entity.Channel{
			Title:       "Crypto Companies — Combined Feed",
			Link:        "https://example.local/combined",
			Description: "Aggregated feed of new/upcoming crypto companies, launches, and funding",
			Language:    "en",
		},
		FeedTimeout:    30 * time.Second,
		ArticleTimeout: 15 * time.Second,
		PageTimeout:    8 * time.Second,
		SummaryTimeout: 30 * time.Second,
		Parallelism:    1,
	}
}

// APIKey returns the credential for the configured provider.
func (c AggregatorConfig) APIKey() string {
	if c.LLMProvider == ProviderClaude {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

// Load resolves the configuration from defaults, the optional YAML file and the
// environment, then validates it. metrics may be nil.
func Load(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (AggregatorConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return AggregatorConfig{}, err
		}
		logger.Info("configuration file loaded", slog.String("path", path))
	}

	fallbacks := cfg.applyEnv(logger, metrics)
	warnInvalidSources(logger, cfg.Sources)

	if metrics != nil {
		metrics.RecordLoadTimestamp()
		metrics.SetFallbackActive(fallbacks > 0)
	}

	if err := cfg.Validate(); err != nil {
		return AggregatorConfig{}, err
	}

	if cfg.UseLLMSummary && cfg.APIKey() == "" {
		logger.Warn("LLM summaries enabled but no API key is set, using local summaries",
			slog.String("provider", cfg.LLMProvider))
		cfg.UseLLMSummary = false
	}

	return cfg, nil
}

// mergeFile overlays the YAML document at path onto c. Keys absent from the
// document keep their current values.
func (c *AggregatorConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrConfigFile, path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfigFile, path, err)
	}
	return nil
}

// applyEnv overlays environment overrides and returns how many fell back.
func (c *AggregatorConfig) applyEnv(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) int {
	fallbacks := 0
	take := func(field string, res pkgconfig.ConfigLoadResult) interface{} {
		if res.FallbackApplied {
			fallbacks++
			for _, w := range res.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", w))
			}
			if metrics != nil {
				metrics.RecordFallback(field)
			}
		}
		return res.Value
	}

	c.Sources = pkgconfig.GetEnvStringList(EnvSources, c.Sources)
	c.OutputPath = pkgconfig.LoadEnvString(EnvOutputPath, c.OutputPath)
	c.MetricsTextfile = pkgconfig.LoadEnvString(EnvMetricsTextfile, c.MetricsTextfile)

	c.MaxArticleChars = take("max_article_chars", pkgconfig.LoadEnvInt(EnvMaxArticleChars, c.MaxArticleChars,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, 100000) })).(int)
	c.SummaryChars = take("summary_chars", pkgconfig.LoadEnvInt(EnvSummaryChars, c.SummaryChars,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, 100000) })).(int)
	c.Parallelism = take("parallelism", pkgconfig.LoadEnvInt(EnvParallelism, c.Parallelism,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, maxParallelism) })).(int)

	c.FeedTimeout = take("feed_timeout", pkgconfig.LoadEnvDuration(EnvFeedTimeout, c.FeedTimeout,
		pkgconfig.ValidatePositiveDuration)).(time.Duration)
	c.ArticleTimeout = take("article_timeout", pkgconfig.LoadEnvDuration(EnvArticleTimeout, c.ArticleTimeout,
		pkgconfig.ValidatePositiveDuration)).(time.Duration)
	c.PageTimeout = take("page_timeout", pkgconfig.LoadEnvDuration(EnvPageTimeout, c.PageTimeout,
		pkgconfig.ValidatePositiveDuration)).(time.Duration)
	c.SummaryTimeout = take("summary_timeout", pkgconfig.LoadEnvDuration(EnvSummaryTimeout, c.SummaryTimeout,
		pkgconfig.ValidatePositiveDuration)).(time.Duration)

	c.LLMProvider = strings.ToLower(take("llm_provider", pkgconfig.LoadEnvWithFallback(EnvLLMProvider, c.LLMProvider,
		validateProvider)).(string))
	c.LLMModel = pkgconfig.LoadEnvString(EnvLLMModel, c.LLMModel)

	c.UseLLMSummary = pkgconfig.GetEnvBool(EnvUseLLMSummary, c.UseLLMSummary)
	c.DenyPrivateIPs = pkgconfig.GetEnvBool(EnvDenyPrivateIPs, c.DenyPrivateIPs)

	c.OpenAIAPIKey = os.Getenv(EnvOpenAIAPIKey)
	c.AnthropicAPIKey = os.Getenv(EnvAnthropicAPIKey)

	return fallbacks
}

// warnInvalidSources logs each source that cannot be fetched as written.
func warnInvalidSources(logger *slog.Logger, sources []string) {
	for i, src := range sources {
		if err := pkgconfig.ValidateHTTPURL(src); err != nil {
			logger.Warn("invalid feed source will be skipped",
				slog.Int("index", i),
				slog.String("source", src),
				slog.Any("error", err))
		}
	}
}

func validateProvider(p string) error {
	switch strings.ToLower(p) {
	case ProviderOpenAI, ProviderClaude:
		return nil
	}
	return fmt.Errorf("unknown provider %q (want %s or %s)", p, ProviderOpenAI, ProviderClaude)
}

// Validate checks the configuration. All field errors are reported together,
// wrapped in entity.ErrValidationFailed. Source URLs are not checked here: a bad
// source fails on its own during the run and never stops the others.
func (c AggregatorConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.OutputPath) == "" {
		errs = append(errs, &entity.ValidationError{Field: "output_path", Message: "must not be empty"})
	}
	if c.MaxArticleChars < 1 {
		errs = append(errs, &entity.ValidationError{Field: "max_article_chars", Message: "must be positive"})
	}
	if c.SummaryChars < 1 {
		errs = append(errs, &entity.ValidationError{Field: "summary_chars", Message: "must be positive"})
	}
	if err := pkgconfig.ValidateIntRange(c.Parallelism, 1, maxParallelism); err != nil {
		errs = append(errs, &entity.ValidationError{Field: "parallelism", Message: err.Error()})
	}
	if err := validateProvider(c.LLMProvider); err != nil {
		errs = append(errs, &entity.ValidationError{Field: "llm_provider", Message: err.Error()})
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"feed_timeout", c.FeedTimeout},
		{"article_timeout", c.ArticleTimeout},
		{"page_timeout", c.PageTimeout},
		{"summary_timeout", c.SummaryTimeout},
	}
	for _, t := range timeouts {
		if err := pkgconfig.ValidatePositiveDuration(t.value); err != nil {
			errs = append(errs, &entity.ValidationError{Field: t.field, Message: err.Error()})
		}
	}

	if strings.TrimSpace(c.Channel.Title) == "" {
		errs = append(errs, &entity.ValidationError{Field: "channel.title", Message: "must not be empty"})
	}
	if err := entity.ValidateURL("channel.link", c.Channel.Link); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", entity.ErrValidationFailed, errors.Join(errs...))
}
