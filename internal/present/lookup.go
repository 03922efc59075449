package present

import (
	"maps"
	"slices"
)

// Lookup is a fixed string table with a fallback for unknown keys.
type Lookup struct {
	entries  map[string]string
	fallback string
}

// NewLookup copies entries into a new table.
func NewLookup(entries map[string]string, fallback string) Lookup {
	return Lookup{entries: maps.Clone(entries), fallback: fallback}
}

// Get returns the value for key, or the fallback.
func (l Lookup) Get(key string) string {
	if v, ok := l.entries[key]; ok {
		return v
	}
	return l.fallback
}

// Fallback returns the value used for unknown keys.
func (l Lookup) Fallback() string {
	return l.fallback
}

// With returns a copy of l with overrides applied. l is not modified.
func (l Lookup) With(overrides map[string]string) Lookup {
	merged := maps.Clone(l.entries)
	if merged == nil {
		merged = make(map[string]string, len(overrides))
	}
	maps.Copy(merged, overrides)
	return Lookup{entries: merged, fallback: l.fallback}
}

// Keys returns the known keys in sorted order.
func (l Lookup) Keys() []string {
	return slices.Sorted(maps.Keys(l.entries))
}

// Activity event types.
const (
	EventDeploy     = "deploy"
	EventPRMerged   = "pr_merged"
	EventIncident   = "incident"
	EventCodeReview = "code_review"
)

// ActivityIcons maps activity event types to glyphs.
var ActivityIcons = NewLookup(map[string]string{
	EventDeploy:     "🚀",
	EventPRMerged:   "🔀",
	EventIncident:   "🔥",
	EventCodeReview: "👁️",
}, "📌")

// LanguageColors maps language names to their display colors.
var LanguageColors = NewLookup(map[string]string{
	"Python":     "#3572A5",
	"JavaScript": "#f1e05a",
	"TypeScript": "#3178c6",
	"Go":         "#00ADD8",
	"HCL":        "#844FBA",
	"Java":       "#b07219",
	"Rust":       "#dea584",
}, "#64748b")

// ActivityIcon returns the glyph for an activity event type.
func ActivityIcon(eventType string) string {
	return ActivityIcons.Get(eventType)
}

// LanguageColor returns the display color for a language name.
func LanguageColor(language string) string {
	return LanguageColors.Get(language)
}
