package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Scrubber replaces secret-shaped substrings with Marker.
//
// A Scrubber is immutable after construction and safe for concurrent use.
// A disabled Scrubber is still invoked by callers (the interface stays
// stable) and returns its input unchanged.
type Scrubber struct {
	enabled bool
	rules   []compiledRule
}

// New compiles the given rules into a Scrubber. Nil rules means DefaultRules.
// Compilation failure is a programming error in the rule table and is
// surfaced, not swallowed.
func New(enabled bool, rules []Rule) (*Scrubber, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern for %s: %w", r.Provider, err)
		}
		compiled = append(compiled, compiledRule{provider: r.Provider, pattern: re})
	}
	return &Scrubber{enabled: enabled, rules: compiled}, nil
}

// MustNew creates a Scrubber from the default rules, panicking on error.
// The default table is fixed, so this cannot panic in practice.
func MustNew(enabled bool) *Scrubber {
	s, err := New(enabled, nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Enabled reports whether scrubbing is active.
func (s *Scrubber) Enabled() bool {
	return s.enabled
}

// Scrub replaces every non-overlapping match of each rule, in rule order,
// with Marker. Each rule performs a single left-to-right scan (leftmost-first
// regex semantics).
func (s *Scrubber) Scrub(text string) string {
	if !s.enabled || text == "" {
		return text
	}
	for _, r := range s.rules {
		text = r.pattern.ReplaceAllString(text, Marker)
	}
	return text
}

// Check reports the providers whose tokens appear in text, without
// modifying it. Used by tests and by callers that want to warn on
// near-miss content.
func (s *Scrubber) Check(text string) []string {
	if !s.enabled || text == "" {
		return nil
	}
	var hits []string
	for _, r := range s.rules {
		if r.pattern.MatchString(text) {
			hits = append(hits, r.provider)
		}
	}
	return hits
}

// Clean reports whether text contains no secret-shaped substrings.
func (s *Scrubber) Clean(text string) bool {
	return len(s.Check(text)) == 0
}

// String implements fmt.Stringer for diagnostics.
func (s *Scrubber) String() string {
	providers := make([]string, len(s.rules))
	for i, r := range s.rules {
		providers[i] = r.provider
	}
	state := "disabled"
	if s.enabled {
		state = "enabled"
	}
	return fmt.Sprintf("redact.Scrubber(%s: %s)", state, strings.Join(providers, ", "))
}
