// Package logging provides a structured, context-aware logging facade with
// independent console and file sinks.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug) for full payload dumps
//   - Two independently thresholded sinks (console, file)
//   - Immutable context chains accumulated via Bind
//   - One-shot secret redaction before any sink formats an event
//   - Category markers resolved from the emitting component's identifier
//
// # Usage
//
// Set up once at process start:
//
//	cfg, err := logging.LoadConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router, err := logging.NewRouter(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer router.Close()
//
// Obtain component loggers and bind work identifiers:
//
//	logger := logging.New(router, "app.pipeline.core")
//	batch := logger.Bind(logging.E("batch_id", "batch-001"))
//	doc := batch.Bind(logging.E("doc_id", "doc-42"))
//	doc.Info("Processing")
//
// Console output stays scannable:
//
//	📥 [batch-001/doc-42] Processing
//
// while the file sink keeps full fidelity:
//
//	{"level":"info","ts":"...","component":"app.pipeline.core","msg":"Processing",
//	 "marker":"📥","batch_id":"batch-001","doc_id":"doc-42"}
//
// # Sinks
//
// The console sink defaults to Info, renders marker + inline prefix +
// message, and truncates to a configured width. The file sink defaults to
// Trace, renders dense JSON lines with every structured field, and is
// disabled entirely when no path is configured. Each sink fails
// independently; a full disk never takes the console down with it.
//
// # Redaction
//
// Provider API tokens (Google AIza…, OpenAI sk-…, Groq gsk_…) are replaced
// with ***REDACTED*** exactly once per event, before either sink formats it.
// Disabling redaction in config turns the filter into a passthrough; it is
// still invoked.
//
// # Failure semantics
//
// Nothing on the emit path returns or panics to the caller. Formatting
// failures degrade to a plain fallback line; sink write failures surface as
// rate-limited internal diagnostics on stderr. The only errors callers ever
// see are configuration-time: unknown level names, an unusable width, or an
// unwritable file path.
//
// # Concurrency safety
//
// Routers are read-only after construction; chains and the scrubber are
// immutable; each sink serializes its writes. Loggers and their derived
// views are safe to share across goroutines.
//
// # Testing
//
// NewTestRouter captures both sinks in memory:
//
//	tr := logging.NewTestRouter(t, nil)
//	logger := logging.New(tr.Router, "app.embed.gemini")
//	logger.Info("hello")
//	tr.AssertConsoleContains(t, "hello")
package logging
