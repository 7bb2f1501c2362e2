package diagfmt

import (
	"astroid/internal/diag"
	"astroid/internal/source"
)

// Position is a 1-based line and byte column.
type Position struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Location points at a byte range of a file; Start/End carry line and
// column only when JSONOpts.IncludePositions is set.
type Location struct {
	File      string    `json:"file"`
	ByteStart uint32    `json:"byte_start"`
	ByteEnd   uint32    `json:"byte_end"`
	Start     *Position `json:"start,omitempty"`
	End       *Position `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// EditJSON replaces Original (the text at Location) with Replacement.
type EditJSON struct {
	Location    Location `json:"location"`
	Original    string   `json:"original,omitempty"`
	Replacement string   `json:"replacement"`
}

type FixJSON struct {
	Title string     `json:"title"`
	Edits []EditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON - одна диагностика в машинном выводе.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	Location Location   `json:"location"`
	Notes    []NoteJSON `json:"notes,omitempty"`
	Fixes    []FixJSON  `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the JSON document for one bag.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (l locator) at(sp source.Span) Location {
	loc := Location{
		File:      formatPath(l.fs.Get(sp.File), l.fs, l.opts.PathMode),
		ByteStart: sp.Start,
		ByteEnd:   sp.End,
	}
	if l.opts.IncludePositions {
		start, end := l.fs.Resolve(sp)
		loc.Start = &Position{Line: start.Line, Col: start.Col}
		loc.End = &Position{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildDiagnosticsOutput converts the bag, truncated to opts.Max entries,
// into its JSON document. Timing notes are always kept.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	l := locator{fs: fs, opts: opts}

	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: l.at(d.Primary),
		}
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: l.at(n.Span)})
			}
		}
		if opts.IncludeFixes {
			for _, fix := range d.Fixes {
				fj := FixJSON{Title: fix.Title}
				for _, e := range fix.Edits {
					fj.Edits = append(fj.Edits, EditJSON{
						Location:    l.at(e.Span),
						Original:    fs.Text(e.Span),
						Replacement: e.NewText,
					})
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}
