// Package telemetry provides OpenTelemetry tracing and metrics for codesim.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (grpc or http/protobuf) to a collector. Failures never stop
// scoring; the instance degrades to no-op providers and records the cause.
//
// Usage:
//
//	tel, err := telemetry.New(ctx, telemetry.NewDefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	ctx, span := tel.Tracer("codesim/engine").Start(ctx, "engine.ScorePair")
//	defer span.End()
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
