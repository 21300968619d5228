package summarizer

import (
	"strings"

	"github.com/tidwall/gjson"

	"combined-feed/internal/domain/entity"
	"combined-feed/internal/usecase/aggregate"
)

// ParseEnrichment reads a model reply into a summary and tags.
//
// Accepted shapes, in order: a bare JSON object, a JSON object inside a markdown
// code fence, a JSON object embedded in surrounding prose. Anything else is taken as
// a plain-text summary with no tags. Tags may be a JSON array or a comma-separated
// string; they are trimmed, deduplicated and capped at aggregate.MaxTags.
func ParseEnrichment(raw string) aggregate.Enrichment {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return aggregate.Enrichment{}
	}

	obj, ok := findJSONObject(raw)
	if !ok {
		return aggregate.Enrichment{Summary: raw}
	}

	summary := strings.TrimSpace(obj.Get("summary").String())
	tags := parseTags(obj.Get("tags"))
	return aggregate.Enrichment{Summary: summary, Tags: tags}
}

func findJSONObject(raw string) (gjson.Result, bool) {
	candidates := []string{raw, stripFence(raw)}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || !gjson.Valid(c) {
			continue
		}
		if res := gjson.Parse(c); res.IsObject() {
			return res, true
		}
	}
	return gjson.Result{}, false
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	body := strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(body), "```")
}

func parseTags(v gjson.Result) []string {
	var tags []string
	switch {
	case v.IsArray():
		for _, t := range v.Array() {
			tags = append(tags, t.String())
		}
	case v.Type == gjson.String:
		tags = strings.Split(v.String(), ",")
	default:
		return nil
	}

	for i, t := range tags {
		tags[i] = strings.TrimPrefix(strings.TrimSpace(t), "#")
	}
	tags = entity.NormalizeTags(tags)
	if len(tags) > aggregate.MaxTags {
		tags = tags[:aggregate.MaxTags]
	}
	return tags
}
