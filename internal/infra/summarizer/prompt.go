package summarizer

import (
	"context"
	"fmt"
	"log/slog"

	"combined-feed/internal/observability/logging"
	"combined-feed/internal/utils/text"
)

// maxInputChars bounds the excerpt sent to a model.
const maxInputChars = 10000

// buildPrompt asks for two short sentences and up to four tags as JSON.
func buildPrompt(title, excerpt string) string {
	return fmt.Sprintf("Summarize in 2 short sentences and give up to 4 tags. Title: %s\n\nExcerpt:\n%s\n\n"+
		"Return JSON with keys: summary, tags (list).", title, excerpt)
}

// clampInput cuts excerpt to maxInputChars characters.
func clampInput(ctx context.Context, provider, excerpt string) string {
	n := text.CountRunes(excerpt)
	if n <= maxInputChars {
		return excerpt
	}
	logging.FromContext(ctx).Warn("text truncated for summarizer",
		slog.String("provider", provider),
		slog.Int("original_length", n),
		slog.Int("truncated_length", maxInputChars))
	return text.Truncate(excerpt, maxInputChars)
}
