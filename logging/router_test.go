package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRouter_PerSinkThresholds(t *testing.T) {
	tests := []struct {
		name        string
		level       zapcore.Level
		wantConsole bool
		wantFile    bool
	}{
		{"trace reaches file only", TraceLevel, false, true},
		{"debug reaches file only", zapcore.DebugLevel, false, true},
		{"info reaches both", zapcore.InfoLevel, true, true},
		{"error reaches both", zapcore.ErrorLevel, true, true},
		{"critical reaches both", CriticalLevel, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTestRouter(t, nil) // console info, file trace
			logger := New(tr.Router, "app.misc")

			logger.log(tt.level, "threshold probe", nil)

			assert.Equal(t, tt.wantConsole,
				strings.Contains(tr.ConsoleOutput(), "threshold probe"), "console")
			assert.Equal(t, tt.wantFile,
				strings.Contains(tr.FileOutput(), "threshold probe"), "file")
		})
	}
}

func TestRouter_DisabledFileSinkWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := NewDefaultConfig() // no file path

	console := &lockedBuffer{}
	r, err := NewRouter(cfg, WithConsoleWriter(console))
	require.NoError(t, err)

	logger := New(r, "app.misc")
	logger.Trace("quiet")
	logger.Critical("loud")

	// Console still works above its threshold.
	assert.Contains(t, console.String(), "loud")
	assert.NotContains(t, console.String(), "quiet")

	// No file appeared anywhere.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, r.Close())
}

func TestRouter_FileSinkAppendsToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := NewDefaultConfig()
	cfg.File.Path = path

	r, err := NewRouter(cfg, WithConsoleWriter(&lockedBuffer{}))
	require.NoError(t, err)

	New(r, "app.store").Info("persisted line")
	require.NoError(t, r.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "persisted line")
	assert.Contains(t, string(content), `"component":"app.store"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("destination unavailable")
}

func TestRouter_SinkFailureIsIsolated(t *testing.T) {
	cfg := NewDefaultConfig()
	file := &lockedBuffer{}
	diags := &lockedBuffer{}
	r, err := NewRouter(cfg,
		WithConsoleWriter(failingWriter{}),
		WithFileWriter(file),
		WithDiagnosticsWriter(diags),
	)
	require.NoError(t, err)

	New(r, "app.misc").Info("survives console failure")

	assert.Contains(t, file.String(), "survives console failure")
	assert.Contains(t, diags.String(), "console sink write failed")
}

func TestRouter_DiagnosticsAreRateLimited(t *testing.T) {
	cfg := NewDefaultConfig()
	diags := &lockedBuffer{}
	r, err := NewRouter(cfg,
		WithConsoleWriter(failingWriter{}),
		WithDiagnosticsWriter(diags),
	)
	require.NoError(t, err)

	logger := New(r, "app.misc")
	for i := 0; i < 50; i++ {
		logger.Info(fmt.Sprintf("attempt %d", i))
	}

	// One failure per limiter window, not fifty.
	assert.Equal(t, 1, strings.Count(diags.String(), "console sink write failed"))
}

func TestRouter_ConsoleTruncation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Console.Width = MinConsoleWidth

	tr := NewTestRouter(t, cfg)
	long := strings.Repeat("abcdefghij", 20)
	New(tr.Router, "app.misc").Info(long)

	lines := tr.ConsoleLines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "…")
	assert.NotContains(t, lines[0], long)

	// The file sink keeps the full message.
	tr.AssertFileContains(t, long)
}

func TestRouter_ConsoleTimestamps(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Console.Timestamps = true

	tr := NewTestRouter(t, cfg)
	New(tr.Router, "app.misc").Info("stamped")

	lines := tr.ConsoleLines()
	require.Len(t, lines, 1)
	// HH:MM:SS before the marker.
	assert.Regexp(t, `\d{2}:\d{2}:\d{2} `, lines[0])
	assert.Contains(t, lines[0], "stamped")
}

func TestRouter_Enabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Console.Level = "warn"

	t.Run("file sink open", func(t *testing.T) {
		tr := NewTestRouter(t, cfg)
		assert.True(t, tr.Router.Enabled(TraceLevel)) // file accepts trace
		assert.True(t, tr.Router.Enabled(zapcore.ErrorLevel))
	})

	t.Run("file sink disabled", func(t *testing.T) {
		r, err := NewRouter(cfg, WithConsoleWriter(&lockedBuffer{}))
		require.NoError(t, err)
		assert.False(t, r.Enabled(TraceLevel))
		assert.False(t, r.Enabled(zapcore.InfoLevel))
		assert.True(t, r.Enabled(zapcore.WarnLevel))
	})
}

func TestRouter_InvalidConfigFailsFast(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Console.Level = "verbose"

	_, err := NewRouter(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestRouter_NilConfigUsesDefaults(t *testing.T) {
	r, err := NewRouter(nil, WithConsoleWriter(&lockedBuffer{}))
	require.NoError(t, err)
	assert.True(t, r.Enabled(zapcore.InfoLevel))
	assert.False(t, r.Enabled(zapcore.DebugLevel))
}

func TestRouter_ConcurrentEmitKeepsLinesIntact(t *testing.T) {
	tr := NewTestRouter(t, nil)
	logger := New(tr.Router, "app.pipeline.core")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				logger.Bind(E("job_id", fmt.Sprintf("g%d-i%d", g, i))).Info("concurrent write")
			}
		}(g)
	}
	wg.Wait()

	consoleLines := tr.ConsoleLines()
	assert.Len(t, consoleLines, 200)
	for _, line := range consoleLines {
		assert.Contains(t, line, "concurrent write")
	}

	fileLines := tr.FileLines()
	assert.Len(t, fileLines, 200)
	for _, line := range fileLines {
		assert.True(t, strings.HasPrefix(line, "{"), line)
		assert.True(t, strings.HasSuffix(line, "}"), line)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"short untouched", "hello", 10, "hello"},
		{"exact untouched", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 8, "hello w…"},
		{"multibyte safe", "📥📥📥📥📥", 3, "📥📥…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.input, tt.width))
		})
	}
}
