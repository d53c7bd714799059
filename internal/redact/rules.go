// Package redact replaces provider API tokens in log output with a fixed
// marker before any sink sees them.
package redact

import "regexp"

// Marker replaces every matched token. It contains no characters that any
// rule can match, so scrubbing is idempotent and never recurses into spans
// it already replaced.
const Marker = "***REDACTED***"

// Rule describes one provider's token shape.
//
// Patterns anchor on the provider's self-identifying prefix plus a plausible
// token-character class of realistic length. Matching stays prefix-strict so
// ordinary prose ("skill", "gasket") is never redacted.
type Rule struct {
	// Provider labels the rule in diagnostics and tests.
	Provider string
	// Pattern is the token shape. Compiled once at scrubber construction.
	Pattern string
}

// DefaultRules returns the fixed rule set in declaration order.
//
// The order is documented for test determinism only; the prefixes are
// provider-disjoint, so reordering cannot change any output.
func DefaultRules() []Rule {
	return []Rule{
		{
			Provider: "google",
			// AIza prefix plus fixed 35-char body, per Google API key format.
			Pattern: `AIza[0-9A-Za-z_\-]{35}`,
		},
		{
			Provider: "openai",
			Pattern:  `sk-[A-Za-z0-9_\-]{16,}`,
		},
		{
			Provider: "groq",
			Pattern:  `gsk_[A-Za-z0-9]{16,}`,
		},
	}
}

// compiledRule pairs a rule with its compiled pattern.
type compiledRule struct {
	provider string
	pattern  *regexp.Regexp
}
