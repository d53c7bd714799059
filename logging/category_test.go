package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestResolveMarker_CategoryTable(t *testing.T) {
	tests := []struct {
		name      string
		component string
		want      string
	}{
		{"gemini", "app.embed.gemini", "🧠"},
		{"embed", "app.embed.local", "🧠"},
		{"llm", "svc.llm.router", "🧠"},
		{"openai", "clients.openai", "🧠"},
		{"groq", "clients.groq", "🧠"},
		{"pipeline", "app.pipeline.core", "📥"},
		{"ingest", "app.ingest.watch", "📥"},
		{"parser", "app.parser.pdf", "📄"},
		{"extract", "app.extract.tables", "📄"},
		{"store", "app.store.vectors", "💾"},
		{"index", "app.index.builder", "💾"},
		{"db", "app.db.sqlite", "💾"},
		{"config", "app.config", "⚙️"},
		{"setup", "app.setup", "⚙️"},
		{"api", "app.api.v1", "🌐"},
		{"server", "app.server", "🌐"},
		{"http", "app.http.client", "🌐"},
		{"no match", "app.misc.other", DefaultMarker},
		{"empty component", "", DefaultMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMarker(tt.component, zapcore.InfoLevel))
		})
	}
}

func TestResolveMarker_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "🧠", ResolveMarker("App.Embed.GEMINI", zapcore.InfoLevel))
	assert.Equal(t, "📥", ResolveMarker("APP.PIPELINE.CORE", TraceLevel))
}

func TestResolveMarker_FirstMatchWins(t *testing.T) {
	// "gemini" precedes "embed" in the table; a component matching both
	// resolves through the earlier rule (same marker here, but order is the
	// contract).
	rules := CategoryRules()
	geminiIdx, embedIdx := -1, -1
	for i, r := range rules {
		switch r.Substring {
		case "gemini":
			geminiIdx = i
		case "embed":
			embedIdx = i
		}
	}
	assert.Less(t, geminiIdx, embedIdx)

	// Cross-category ordering is observable: "pipeline" precedes "store".
	assert.Equal(t, "📥", ResolveMarker("app.pipeline.store", zapcore.InfoLevel))
}

func TestResolveMarker_SeverityOverridesCategory(t *testing.T) {
	tests := []struct {
		name      string
		component string
		level     zapcore.Level
		want      string
	}{
		{"error beats parser", "app.parser.pdf", zapcore.ErrorLevel, "❌"},
		{"warn beats pipeline", "app.pipeline.core", zapcore.WarnLevel, "⚠️"},
		{"critical beats gemini", "app.embed.gemini", CriticalLevel, "🔥"},
		{"info keeps category", "app.parser.pdf", zapcore.InfoLevel, "📄"},
		{"trace keeps category", "app.parser.pdf", TraceLevel, "📄"},
		{"debug keeps category", "app.parser.pdf", zapcore.DebugLevel, "📄"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMarker(tt.component, tt.level))
		})
	}
}

func TestResolveMarker_Pure(t *testing.T) {
	a := ResolveMarker("app.embed.gemini", zapcore.InfoLevel)
	b := ResolveMarker("app.embed.gemini", zapcore.InfoLevel)
	assert.Equal(t, a, b)
}

func TestCategoryRules_CopyIsIsolated(t *testing.T) {
	rules := CategoryRules()
	rules[0].Marker = "mutated"

	assert.NotEqual(t, "mutated", CategoryRules()[0].Marker)
}

func TestCategoryRules_SubstringsAreLowercase(t *testing.T) {
	// Matching lowercases the component only, so table entries must already
	// be lowercase.
	for _, r := range CategoryRules() {
		assert.Equal(t, strings.ToLower(r.Substring), r.Substring, r.Substring)
	}
}
