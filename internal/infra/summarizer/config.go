// Package summarizer provides the external, model-backed summarizers.
// Each one asks a hosted model for a short summary plus topical tags and reads the
// reply tolerantly; failures are returned to the caller, which falls back to the
// local summary.
package summarizer

import (
	"fmt"
	"time"
)

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000
)

// ValidateCharacterLimit validates that the character limit is within the valid range (100-5000).
//
// Example:
//
//	err := ValidateCharacterLimit(300)  // nil (valid)
//	err := ValidateCharacterLimit(50)   // error: "character limit 50 is below minimum 100"
//	err := ValidateCharacterLimit(6000) // error: "character limit 6000 exceeds maximum 5000"
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// Config holds the settings shared by the external summarizers.
type Config struct {
	// CharacterLimit is a soft limit: longer summaries are kept but logged and counted.
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens caps the response size.
	MaxTokens int

	// Temperature is passed through to the provider.
	Temperature float32

	// Timeout bounds a single call, retries included.
	Timeout time.Duration

	// RequestsPerSecond paces calls across goroutines. Zero disables pacing.
	RequestsPerSecond float64
}

// GetCharacterLimit returns the soft summary length limit in characters.
func (c *Config) GetCharacterLimit() int {
	return c.CharacterLimit
}

// Validate checks that the configuration can drive a provider.
func (c *Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}

	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative, got %v", c.RequestsPerSecond)
	}

	return nil
}

// DefaultOpenAIConfig returns the OpenAI defaults.
func DefaultOpenAIConfig() Config {
	return Config{
		CharacterLimit:    300,
		Model:             "gpt-4o-mini",
		MaxTokens:         150,
		Temperature:       0.2,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
	}
}

// DefaultClaudeConfig returns the Claude defaults.
func DefaultClaudeConfig() Config {
	return Config{
		CharacterLimit:    300,
		Model:             "claude-3-5-haiku-latest",
		MaxTokens:         300,
		Temperature:       0.2,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
	}
}
