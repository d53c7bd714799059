package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fyrsmithlabs/scribe/internal/redact"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

// Event is one accepted log call, fully scrubbed, on its way to the sinks.
// Built by the facade, consumed once by the router, then discarded.
type Event struct {
	Time      time.Time
	Level     zapcore.Level
	Component string
	Marker    string
	Prefix    string
	Message   string
	Fields    []zap.Field
}

// Router dispatches events to the console and file sinks. Construct it once
// at process setup; it is read-only afterwards and safe for concurrent Emit.
type Router struct {
	console *consoleSink
	file    *fileSink

	// scrub sanitizes every event exactly once, before either sink formats
	// it, so a future sink with a broader threshold cannot bypass redaction.
	scrub *redact.Scrubber

	// diagLimiter gates the router's own failure diagnostics so a dead
	// destination cannot cascade into a diagnostic flood.
	diagLimiter *rate.Limiter
	diagOut     io.Writer
	diagMu      sync.Mutex
}

// Option adjusts router construction, mainly for tests injecting writers.
type Option func(*routerOptions)

type routerOptions struct {
	consoleWriter io.Writer
	fileWriter    io.Writer
	diagWriter    io.Writer
}

// WithConsoleWriter redirects console output, replacing stderr.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *routerOptions) { o.consoleWriter = w }
}

// WithFileWriter redirects file-sink output to w, enabling the file sink
// without opening Config.File.Path.
func WithFileWriter(w io.Writer) Option {
	return func(o *routerOptions) { o.fileWriter = w }
}

// WithDiagnosticsWriter redirects the router's internal failure diagnostics.
func WithDiagnosticsWriter(w io.Writer) Option {
	return func(o *routerOptions) { o.diagWriter = w }
}

// NewRouter validates cfg and builds the two sinks. This is the one-time
// setup operation; calling it again builds an independent router and never
// touches an existing one.
func NewRouter(cfg *Config, opts ...Option) (*Router, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	consoleLevel, err := ParseLevel(cfg.Console.Level)
	if err != nil {
		return nil, err
	}
	fileLevel, err := ParseLevel(cfg.File.Level)
	if err != nil {
		return nil, err
	}

	consoleOut := o.consoleWriter
	if consoleOut == nil {
		consoleOut = os.Stderr
	}

	r := &Router{
		scrub: redact.MustNew(cfg.Redaction.Enabled),
		console: &consoleSink{
			threshold:  consoleLevel,
			width:      cfg.Console.Width,
			timestamps: cfg.Console.Timestamps,
			out:        consoleOut,
		},
		file: &fileSink{
			threshold: fileLevel,
			enc:       newFileEncoder(),
		},
		diagLimiter: rate.NewLimiter(rate.Every(cfg.Diagnostics.Interval.Duration()), 1),
		diagOut:     os.Stderr,
	}
	if o.diagWriter != nil {
		r.diagOut = o.diagWriter
	}

	switch {
	case o.fileWriter != nil:
		r.file.out = o.fileWriter
	case cfg.File.Path != "":
		f, err := os.OpenFile(cfg.File.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		r.file.out = f
		r.file.file = f
	}

	return r, nil
}

// Enabled reports whether any sink would accept the level. Used as the
// facade's fast path so disabled levels cost nothing.
func (r *Router) Enabled(level zapcore.Level) bool {
	if level >= r.console.threshold {
		return true
	}
	return r.file.enabled() && level >= r.file.threshold
}

// Emit routes the event to every sink whose threshold it clears. A sink's
// formatting or write failure never reaches the other sink or the caller.
func (r *Router) Emit(ev Event) {
	if ev.Level >= r.console.threshold {
		if err := r.console.write(ev); err != nil {
			r.diag("console sink write failed: %v", err)
		}
	}
	if r.file.enabled() && ev.Level >= r.file.threshold {
		if err := r.file.write(ev, r); err != nil {
			r.diag("file sink write failed: %v", err)
		}
	}
}

// diag reports an internal failure, rate-limited to one per limiter window.
func (r *Router) diag(format string, args ...any) {
	if !r.diagLimiter.Allow() {
		return
	}
	r.diagMu.Lock()
	defer r.diagMu.Unlock()
	fmt.Fprintf(r.diagOut, "scribe: "+format+"\n", args...)
}

// Sync flushes the file sink. EINVAL/ENOTTY from terminal-backed writers are
// swallowed, matching fsync behavior on stderr.
func (r *Router) Sync() error {
	if r.file.file == nil {
		return nil
	}
	if err := r.file.file.Sync(); err != nil && !isTerminalSyncError(err) {
		return err
	}
	return nil
}

// Close flushes and closes the file sink. The router must not be used after
// Close.
func (r *Router) Close() error {
	if r.file.file == nil {
		return nil
	}
	if err := r.Sync(); err != nil {
		return err
	}
	return r.file.file.Close()
}

func isTerminalSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}

// Console sink

// Level styles follow the monitor dashboard palette: quiet levels dim,
// warnings amber, failures red.
var (
	traceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	debugStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	infoStyle     = lipgloss.NewStyle()
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func styleFor(level zapcore.Level) lipgloss.Style {
	switch {
	case level <= TraceLevel:
		return traceStyle
	case level == zapcore.DebugLevel:
		return debugStyle
	case level == zapcore.WarnLevel:
		return warnStyle
	case level == zapcore.ErrorLevel:
		return errorStyle
	case level >= CriticalLevel:
		return criticalStyle
	default:
		return infoStyle
	}
}

// consoleSink renders scannable single lines: clock (optional), marker,
// inline context prefix, message. Structured fields stay off the console;
// the file sink carries full fidelity.
type consoleSink struct {
	threshold  zapcore.Level
	width      int
	timestamps bool
	out        io.Writer
	mu         sync.Mutex
}

func (s *consoleSink) write(ev Event) error {
	var b strings.Builder
	if s.timestamps {
		b.WriteString(ev.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	b.WriteString(ev.Marker)
	b.WriteByte(' ')
	if ev.Prefix != "" {
		b.WriteString(ev.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(ev.Message)

	// Truncate before styling so ANSI escapes are never cut mid-sequence.
	line := truncate(b.String(), s.width)
	line = styleFor(ev.Level).Render(line)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, line+"\n")
	return err
}

// truncate bounds s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// File sink

// fileSink appends one dense JSON line per event: timestamp, level,
// component, marker, message, every structured field. Writes are serialized
// under mu so concurrent emitters never interleave within a line.
type fileSink struct {
	threshold zapcore.Level
	enc       zapcore.Encoder
	out       io.Writer
	file      *os.File
	mu        sync.Mutex
}

func (s *fileSink) enabled() bool {
	return s.out != nil
}

func newFileEncoder() zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.NameKey = "component"
	encoderCfg.EncodeLevel = encodeLevel
	return zapcore.NewJSONEncoder(encoderCfg)
}

func (s *fileSink) write(ev Event, r *Router) error {
	entry := zapcore.Entry{
		Level:      ev.Level,
		Time:       ev.Time,
		LoggerName: ev.Component,
		Message:    ev.Message,
	}
	fields := make([]zap.Field, 0, len(ev.Fields)+1)
	fields = append(fields, zap.String("marker", ev.Marker))
	fields = append(fields, ev.Fields...)

	buf, err := s.enc.Clone().EncodeEntry(entry, fields)
	if err != nil {
		// Formatting failure degrades to a best-effort plain line; the
		// event still reaches the sink.
		r.diag("file sink encode failed: %v", err)
		fallback := fmt.Sprintf("%s %s %s %s %s (fields unrenderable)\n",
			ev.Time.Format(time.RFC3339), LevelName(ev.Level), ev.Component, ev.Marker, ev.Message)
		s.mu.Lock()
		defer s.mu.Unlock()
		_, werr := io.WriteString(s.out, fallback)
		return werr
	}
	defer buf.Free()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(buf.Bytes())
	return err
}
