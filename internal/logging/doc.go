// Package logging provides structured logging for codesim.
//
// Logger wraps Zap with:
//   - a Trace level (-2, below Debug) for per-vector detail
//   - context field injection (trace_id, span_id, request.id, author.id)
//   - encoder-level redaction so source code and credentials never reach output
//   - optional sampling (errors never sampled) and an optional OpenTelemetry sink
//
// Logs go to stderr by default so command output on stdout stays machine readable.
//
// Usage:
//
//	logger, err := logging.NewLogger(logging.NewDefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req-42")
//	logger.Info(ctx, "matrix built", zap.Int("snippets", n))
//
// Never log snippet text directly; use SnippetDigest:
//
//	logger.Debug(ctx, "fetching embedding", logging.SnippetDigest("snippet_digest", text))
//
// Tests use NewTestLogger, which records entries in memory and offers
// AssertLogged / AssertField / AssertNoCode helpers.
package logging
