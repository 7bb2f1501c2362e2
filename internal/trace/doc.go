// Package trace records what the analysis driver is doing: which pass runs,
// which module is being parsed, how long each took.
//
//	astroid diagnose --trace=- --trace-level=detail ./src
//
// The tracer travels with the context and spans nest through it:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Levels from quiet to verbose are off, error (ring only, dumped at exit),
// phase, detail and debug. A stream tracer writes text or NDJSON as events
// happen; a ring tracer keeps the last N events.
package trace
