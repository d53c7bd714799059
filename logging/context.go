package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Entry is one bound key-value pair in a context chain.
type Entry struct {
	Key   string
	Value string
}

// E is shorthand for constructing an Entry at a bind site.
func E(key, value string) Entry {
	return Entry{Key: key, Value: value}
}

// Chain is an ordered, append-only trail of bound entries identifying a
// logical unit of work (batch, document, chunk). Chains are immutable:
// binding copies the parent's entries, so parent and child never share
// mutable state and a parent remains independently usable after derivation.
type Chain []Entry

// inlineKeys is the fixed allow-list of keys rendered inline as the
// [v1/v2/...] console prefix. Everything else bound onto a chain travels as
// structured fields only, keeping console lines short.
var inlineKeys = map[string]bool{
	"batch_id":   true,
	"doc_id":     true,
	"chunk_id":   true,
	"job_id":     true,
	"session_id": true,
}

// append returns a new chain with entries added; the receiver is unchanged.
func (c Chain) append(entries []Entry) Chain {
	child := make(Chain, 0, len(c)+len(entries))
	child = append(child, c...)
	child = append(child, entries...)
	return child
}

// Prefix renders the inline context prefix, e.g. "[batch-001/doc-42]".
// Only allow-listed keys render; order follows the first bind of each key,
// and a re-bound key shows its latest value in its original slot
// (last-write-wins at render time, never at storage time). Returns "" for a
// chain with no inline keys.
func (c Chain) Prefix() string {
	var order []string
	latest := make(map[string]string, len(c))
	for _, e := range c {
		if !inlineKeys[e.Key] {
			continue
		}
		if _, seen := latest[e.Key]; !seen {
			order = append(order, e.Key)
		}
		latest[e.Key] = e.Value
	}
	if len(order) == 0 {
		return ""
	}
	values := make([]string, len(order))
	for i, k := range order {
		values[i] = latest[k]
	}
	return "[" + strings.Join(values, "/") + "]"
}

// Fields renders the full chain as structured fields in insertion order.
// Duplicate keys are preserved; the chain records history, not state.
func (c Chain) Fields() []zap.Field {
	if len(c) == 0 {
		return nil
	}
	fields := make([]zap.Field, len(c))
	for i, e := range c {
		fields[i] = zap.String(e.Key, e.Value)
	}
	return fields
}

// loggerCtxKey is the context key for Logger.
type loggerCtxKey struct{}

// WithLogger stores a logger in the context so call sites deep in a request
// can log with the caller's bound chain.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves the logger from the context.
// Returns a silent no-op logger if none was stored.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}
