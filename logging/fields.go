package logging

import (
	"strconv"

	"github.com/fyrsmithlabs/scribe/internal/config"
	"github.com/fyrsmithlabs/scribe/internal/redact"
	"go.uber.org/zap"
)

// Secret creates a field for a config.Secret. The rendered value is the
// redaction marker plus the secret's length; the value itself never enters
// the pipeline, so this holds even with redaction disabled.
func Secret(key string, val config.Secret) zap.Field {
	if !val.IsSet() {
		return zap.String(key, "")
	}
	return zap.String(key, redact.Marker+":"+strconv.Itoa(len(val.Value())))
}

// RedactedString creates a field whose value is replaced at the call site,
// for strings that are known-sensitive regardless of shape (auth headers,
// passphrases) and so can't rely on pattern matching.
func RedactedString(key, val string) zap.Field {
	return zap.String(key, redact.Marker+":"+strconv.Itoa(len(val)))
}
