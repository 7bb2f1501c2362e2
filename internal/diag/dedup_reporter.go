package diag

import "astroid/internal/source"

// findingKey identifies a finding regardless of its notes and fixes.
type findingKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct finding once. Error recovery in the
// parser may describe one broken region from several nodes; only the first
// report reaches next.
type DedupReporter struct {
	next       Reporter
	seen       map[findingKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[findingKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	key := findingKey{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed returns how many repeated findings were dropped.
func (r *DedupReporter) Suppressed() int { return r.suppressed }
