// Package diag defines the diagnostic model shared by the parser, the
// import resolver and the analysis commands.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     SYN codes come from turning source text into a tree, ANA codes from
//     queries over the tree, IO and PRJ codes from the driver.
//   - Message: short, human oriented text.
//   - Primary span pointing at the offending source range.
//   - Notes: optional secondary spans for extra context.
//   - Fixes: optional text edits; nothing in this package applies them.
//
// # Emitting diagnostics
//
// Producers take a Reporter and never store diagnostics themselves. The
// builder helpers ReportError and ReportWarning chain WithNote and WithFix
// before Emit. BagReporter collects into a Bag; DedupReporter drops repeated
// findings before passing the rest on.
//
// # Rendering
//
// FormatShort renders one line per entry, sorted by path and position, with
// paths relative to source.FileSet.BaseDir. Richer output lives in diagfmt.
package diag
