package format

import (
	"bytes"
	"strings"
)

// lineWriter collects whole source lines. Python statements never share a
// line in the printed output, so there is no partial-line state.
type lineWriter struct {
	buf   bytes.Buffer
	unit  string
	depth int
}

func newLineWriter(opt Options) *lineWriter {
	unit := "\t"
	if !opt.UseTabs {
		unit = strings.Repeat(" ", opt.withDefaults().IndentWidth)
	}
	return &lineWriter{unit: unit}
}

// line writes s at the current depth; s itself must not contain a newline.
func (w *lineWriter) line(s string) {
	for range w.depth {
		w.buf.WriteString(w.unit)
	}
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

func (w *lineWriter) indent() { w.depth++ }

func (w *lineWriter) dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

func (w *lineWriter) bytes() []byte { return w.buf.Bytes() }
