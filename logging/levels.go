package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug for full payload dumps.
// Value: -2 (Debug is -1, Info is 0)
//
// Use for:
//   - Prompt/response bodies of AI calls
//   - Wire-level payloads
//   - Almost always filtered on console, kept in the file sink
const TraceLevel = zapcore.Level(-2)

// CriticalLevel marks failures that compromise the process. It maps onto
// zapcore.DPanicLevel, which in a non-development logger writes without
// panicking; the name tables below render it as "critical".
const CriticalLevel = zapcore.DPanicLevel

// ErrUnknownLevel is returned by ParseLevel for names outside the level table.
var ErrUnknownLevel = errors.New("unknown log level")

// levelNames is the render table for the two custom mappings. Zap levels are
// plain int8 constants, so "registering" the custom levels amounts to these
// immutable tables; RegisterLevelNames exists for the one-time-setup contract
// and is a no-op on every call.
var levelNames = map[zapcore.Level]string{
	TraceLevel:    "trace",
	CriticalLevel: "critical",
}

var namedLevels = map[string]zapcore.Level{
	"trace":    TraceLevel,
	"critical": CriticalLevel,
	"warning":  zapcore.WarnLevel,
}

// RegisterLevelNames makes the custom level names available to parsing and
// encoding. The tables are package constants, so repeated calls are no-ops.
func RegisterLevelNames() {}

// ParseLevel parses a case-insensitive level name, supporting the custom
// "trace" and "critical" names plus zap's own. Unknown names return an error
// wrapping ErrUnknownLevel.
func ParseLevel(name string) (zapcore.Level, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		// zapcore treats "" as info; an absent level name is a config bug.
		return zapcore.InfoLevel, fmt.Errorf("%w: empty name", ErrUnknownLevel)
	}
	if l, ok := namedLevels[lower]; ok {
		return l, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lower)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	return l, nil
}

// LevelName renders a level, substituting the custom names where zap would
// print "Level(-2)" or "dpanic".
func LevelName(l zapcore.Level) string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return l.String()
}

// encodeLevel is the zapcore level encoder used by the file sink.
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(LevelName(l))
}
