package logging

import (
	"fmt"
	"sort"
	"time"

	"github.com/fyrsmithlabs/scribe/internal/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a lightweight immutable view over a shared Router: a component
// identifier plus a bound context chain. Deriving views with Bind or Named
// never affects the parent, so loggers can be handed across goroutines
// freely.
type Logger struct {
	router    *Router
	component string
	chain     Chain
}

// New returns a logger bound to the given component identifier, emitting
// through router. The component identifier drives category marker
// resolution, e.g. "app.embed.gemini".
func New(router *Router, component string) *Logger {
	return &Logger{router: router, component: component}
}

// Nop returns a logger that discards everything. FromContext falls back to
// it so call sites never need nil checks.
func Nop() *Logger {
	return &Logger{}
}

// Bind derives a logger whose chain extends the receiver's with entries, in
// the order given. The receiver is unchanged and remains independently
// usable.
func (l *Logger) Bind(entries ...Entry) *Logger {
	return &Logger{
		router:    l.router,
		component: l.component,
		chain:     l.chain.append(entries),
	}
}

// Named derives a logger for a sub-component, extending the component
// identifier with a dot.
func (l *Logger) Named(name string) *Logger {
	component := name
	if l.component != "" {
		component = l.component + "." + name
	}
	return &Logger{
		router:    l.router,
		component: component,
		chain:     l.chain,
	}
}

// Chain returns a copy of the bound context chain, mainly for tests.
func (l *Logger) Chain() Chain {
	return l.chain.append(nil)
}

// Enabled reports whether any sink would accept the level.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.router != nil && l.router.Enabled(level)
}

// Trace logs at the custom level below debug, for full payload dumps.
func (l *Logger) Trace(msg string, fields ...zap.Field) {
	l.log(TraceLevel, msg, fields)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.log(zapcore.DebugLevel, msg, fields)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.log(zapcore.InfoLevel, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.log(zapcore.WarnLevel, msg, fields)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.log(zapcore.ErrorLevel, msg, fields)
}

// Critical logs process-compromising failures.
func (l *Logger) Critical(msg string, fields ...zap.Field) {
	l.log(CriticalLevel, msg, fields)
}

// TraceAI logs one AI call at trace level with a fixed field shape for
// introspection. Prompts and responses go through the same redaction as any
// other text; they routinely quote configuration that includes keys.
func (l *Logger) TraceAI(prompt, response string, tokens int, fields ...zap.Field) {
	ai := []zap.Field{
		zap.String("ai.prompt", prompt),
		zap.String("ai.response", response),
		zap.Int("ai.tokens", tokens),
	}
	l.log(TraceLevel, "ai call", append(ai, fields...))
}

// ErrorWithContext logs err at error level with a snapshot of the supplied
// local state. Values are rendered to strings at call time, so mutating the
// caller's variables afterwards cannot change what the file sink records.
// Keys are sorted for deterministic output.
func (l *Logger) ErrorWithContext(err error, state map[string]any, fields ...zap.Field) {
	msg := "error with context"
	if err != nil {
		msg = err.Error()
	}

	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snapshot := make([]zap.Field, 0, len(keys)+2)
	if err != nil {
		snapshot = append(snapshot, zap.String("error", err.Error()))
	}
	snapshot = append(snapshot, zap.Stack("stacktrace"))
	for _, k := range keys {
		snapshot = append(snapshot, zap.String("state."+k, fmt.Sprintf("%v", state[k])))
	}

	l.log(zapcore.ErrorLevel, msg, append(snapshot, fields...))
}

// log runs the full pipeline: fast level check, marker resolution, chain
// prefix, one-shot redaction, sink dispatch. Nothing in here may reach the
// caller; a logging utility must never be the thing that crashes the host.
func (l *Logger) log(level zapcore.Level, msg string, fields []zap.Field) {
	if l.router == nil || !l.router.Enabled(level) {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			l.router.diag("recovered panic while logging %q: %v", msg, p)
		}
	}()

	sc := l.router.scrub
	all := make([]zap.Field, 0, len(l.chain)+len(fields))
	all = append(all, l.chain.Fields()...)
	all = append(all, fields...)

	// The prefix is composed from bound values, so it passes through the
	// scrubber like the message and fields; a token bound under an inline
	// key must not reach the console.
	l.router.Emit(Event{
		Time:      time.Now(),
		Level:     level,
		Component: l.component,
		Marker:    ResolveMarker(l.component, level),
		Prefix:    sc.Scrub(l.chain.Prefix()),
		Message:   sc.Scrub(msg),
		Fields:    scrubFields(sc, all),
	})
}

// scrubFields redacts string-valued fields in place on a fresh slice.
// Error-typed fields are flattened to their scrubbed message; numeric and
// boolean values pass through untouched.
func scrubFields(sc *redact.Scrubber, fields []zap.Field) []zap.Field {
	if !sc.Enabled() || len(fields) == 0 {
		return fields
	}
	out := make([]zap.Field, len(fields))
	copy(out, fields)
	for i, f := range out {
		switch f.Type {
		case zapcore.StringType:
			out[i].String = sc.Scrub(f.String)
		case zapcore.ByteStringType:
			if b, ok := f.Interface.([]byte); ok {
				out[i].Interface = []byte(sc.Scrub(string(b)))
			}
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				out[i] = zap.String(f.Key, sc.Scrub(err.Error()))
			}
		}
	}
	return out
}
