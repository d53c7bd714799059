package logging

import (
	"strings"
	"sync"
	"testing"
)

// TestRouter captures rendered sink output for assertions. Both sinks write
// into in-memory buffers, so tests observe exactly what an operator or a log
// parser would see: markers, prefixes, redaction markers, truncation.
type TestRouter struct {
	*Router
	console *lockedBuffer
	file    *lockedBuffer
	diags   *lockedBuffer
}

// NewTestRouter builds a router over in-memory sinks. A nil cfg uses
// defaults with the file sink forced to trace; lipgloss styling is inert in
// tests because the buffers are not terminals.
func NewTestRouter(t *testing.T, cfg *Config) *TestRouter {
	t.Helper()
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	console := &lockedBuffer{}
	file := &lockedBuffer{}
	diags := &lockedBuffer{}
	r, err := NewRouter(cfg,
		WithConsoleWriter(console),
		WithFileWriter(file),
		WithDiagnosticsWriter(diags),
	)
	if err != nil {
		t.Fatalf("NewTestRouter: %v", err)
	}
	return &TestRouter{Router: r, console: console, file: file, diags: diags}
}

// ConsoleOutput returns everything written to the console sink.
func (tr *TestRouter) ConsoleOutput() string {
	return tr.console.String()
}

// FileOutput returns everything written to the file sink.
func (tr *TestRouter) FileOutput() string {
	return tr.file.String()
}

// Diagnostics returns the router's internal failure diagnostics.
func (tr *TestRouter) Diagnostics() string {
	return tr.diags.String()
}

// ConsoleLines returns the console output split into lines.
func (tr *TestRouter) ConsoleLines() []string {
	return splitLines(tr.console.String())
}

// FileLines returns the file output split into lines.
func (tr *TestRouter) FileLines() []string {
	return splitLines(tr.file.String())
}

// Reset clears all captured output.
func (tr *TestRouter) Reset() {
	tr.console.Reset()
	tr.file.Reset()
	tr.diags.Reset()
}

// AssertConsoleContains fails unless the console output contains want.
func (tr *TestRouter) AssertConsoleContains(t *testing.T, want string) {
	t.Helper()
	if !strings.Contains(tr.console.String(), want) {
		t.Errorf("console output missing %q, got:\n%s", want, tr.console.String())
	}
}

// AssertFileContains fails unless the file output contains want.
func (tr *TestRouter) AssertFileContains(t *testing.T, want string) {
	t.Helper()
	if !strings.Contains(tr.file.String(), want) {
		t.Errorf("file output missing %q, got:\n%s", want, tr.file.String())
	}
}

// AssertNoSecrets fails if either sink's output contains secret-shaped
// content for any provider the router's scrubber knows. With redaction
// disabled in the router's config this check is vacuous, like the scrubber
// itself.
func (tr *TestRouter) AssertNoSecrets(t *testing.T) {
	t.Helper()
	for name, out := range map[string]string{
		"console": tr.console.String(),
		"file":    tr.file.String(),
	} {
		if !tr.Router.scrub.Clean(out) {
			t.Errorf("%s output contains secret-shaped content (providers: %v)",
				name, tr.Router.scrub.Check(out))
		}
	}
}

// AssertNowhere fails if any sink's output contains forbidden. Used for
// redaction coverage: a secret must not survive anywhere.
func (tr *TestRouter) AssertNowhere(t *testing.T, forbidden string) {
	t.Helper()
	if strings.Contains(tr.console.String(), forbidden) {
		t.Errorf("console output leaked %q", forbidden)
	}
	if strings.Contains(tr.file.String(), forbidden) {
		t.Errorf("file output leaked %q", forbidden)
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// lockedBuffer is a goroutine-safe string buffer; Emit may run from many
// goroutines in concurrency tests.
type lockedBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func (l *lockedBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.b.Reset()
}
