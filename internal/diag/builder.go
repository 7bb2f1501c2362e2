package diag

import (
	"slices"

	"astroid/internal/source"
)

// Diagnostic is one finding about a module. Primary is the span the message is
// about; for import checks it is the whole import statement.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Notes carry secondary spans; timing diagnostics keep one note per phase.
	Notes []Note
	// Fixes are only rendered on request (diagnose --suggest).
	Fixes []Fix
}

type Note struct {
	Span source.Span
	Msg  string
}

// Fix is a titled group of edits applied together.
type Fix struct {
	Title string
	Edits []FixEdit
}

// FixEdit replaces Span with NewText; an empty NewText deletes the span.
type FixEdit struct {
	Span    source.Span
	NewText string
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

// WithNote returns d with a note attached; d itself is not modified.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

// WithFix returns d with one more suggested fix.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(slices.Clip(d.Fixes), Fix{Title: title, Edits: edits})
	return d
}
