package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// CategoryRule maps a component-identifier substring to a visual marker.
type CategoryRule struct {
	// Substring is matched case-insensitively against the component name.
	Substring string
	Marker    string
}

// Severity markers override any category marker. A warning from a parser
// must read as a warning first.
var severityMarkers = map[zapcore.Level]string{
	CriticalLevel:     "🔥",
	zapcore.ErrorLevel: "❌",
	zapcore.WarnLevel:  "⚠️",
}

// DefaultMarker is returned when no category rule matches.
const DefaultMarker = "🔹"

// categoryRules is the fixed resolution table. First match wins; order is
// part of the contract and covered rule by rule in tests.
var categoryRules = []CategoryRule{
	{Substring: "gemini", Marker: "🧠"},
	{Substring: "embed", Marker: "🧠"},
	{Substring: "llm", Marker: "🧠"},
	{Substring: "openai", Marker: "🧠"},
	{Substring: "groq", Marker: "🧠"},
	{Substring: "pipeline", Marker: "📥"},
	{Substring: "ingest", Marker: "📥"},
	{Substring: "parser", Marker: "📄"},
	{Substring: "extract", Marker: "📄"},
	{Substring: "store", Marker: "💾"},
	{Substring: "index", Marker: "💾"},
	{Substring: "db", Marker: "💾"},
	{Substring: "config", Marker: "⚙️"},
	{Substring: "setup", Marker: "⚙️"},
	{Substring: "api", Marker: "🌐"},
	{Substring: "server", Marker: "🌐"},
	{Substring: "http", Marker: "🌐"},
}

// CategoryRules returns a copy of the resolution table so tests can cover
// each rule without exposing the table to mutation.
func CategoryRules() []CategoryRule {
	out := make([]CategoryRule, len(categoryRules))
	copy(out, categoryRules)
	return out
}

// ResolveMarker picks the visual marker for an event. Pure function of its
// arguments: severity markers first, then the category table in declaration
// order, then DefaultMarker.
func ResolveMarker(component string, level zapcore.Level) string {
	if m, ok := severityMarkers[level]; ok {
		return m
	}
	lower := strings.ToLower(component)
	for _, rule := range categoryRules {
		if strings.Contains(lower, rule.Substring) {
			return rule.Marker
		}
	}
	return DefaultMarker
}
