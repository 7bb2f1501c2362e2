package source

import (
	"slices"

	"fortio.org/safecast"
)

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

// lineIndex holds the byte offset of every '\n' in a file.
type lineIndex []uint32

func newLineIndex(content []byte) lineIndex {
	idx := make(lineIndex, 0, len(content)/40+1)
	for off, b := range content {
		if b != '\n' {
			continue
		}
		pos, err := safecast.Conv[uint32](off)
		if err != nil {
			break
		}
		idx = append(idx, pos)
	}
	return idx
}

// position maps a byte offset to line and column. The newline byte itself
// belongs to the line it terminates.
func (idx lineIndex) position(off uint32) LineCol {
	line, _ := slices.BinarySearch(idx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = idx[line-1] + 1
	}
	n, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		return LineCol{}
	}
	return LineCol{Line: n, Col: off - lineStart + 1}
}

// bounds returns the offsets of a 1-based line without its newline.
func (idx lineIndex) bounds(line int, size uint32) (start, end uint32, ok bool) {
	if line < 1 || line > len(idx)+1 {
		return 0, 0, false
	}
	end = size
	if line > 1 {
		start = idx[line-2] + 1
	}
	if line <= len(idx) {
		end = idx[line-1]
	}
	// последняя "строка" после завершающего \n не существует
	return start, end, line <= len(idx) || start < size
}
