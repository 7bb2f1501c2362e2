package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"astroid/internal/source"
)

// ShortOpts configures FormatShort.
type ShortOpts struct {
	// Notes adds one "note" line per diagnostic note.
	Notes bool
	// SkipInstalled drops lines located in site-packages or dist-packages.
	SkipInstalled bool
}

type shortLine struct {
	sev       string
	code      string
	path      string
	line, col uint32
	msg       string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", ordered by path and position. Paths
// are relative to fs.BaseDir; messages are folded onto a single line.
func FormatShort(diags []Diagnostic, fs *source.FileSet, opts ShortOpts) []string {
	if fs == nil {
		return nil
	}
	var lines []shortLine
	add := func(sev string, code Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		path := strings.TrimPrefix(filepath.ToSlash(f.FormatPath("relative", fs.BaseDir())), "./")
		if opts.SkipInstalled && installedPath(path) {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{sev: sev, code: code.ID(), path: path, line: start.Line, col: start.Col, msg: oneLine(msg)})
	}
	for i := range diags {
		d := &diags[i]
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if opts.Notes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func installedPath(p string) bool {
	p = "/" + strings.TrimLeft(p, "/")
	return strings.Contains(p, "/site-packages/") || strings.Contains(p, "/dist-packages/")
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
