package source

import (
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how a file's bytes were obtained.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	// FileNewlines: "\r\n" or "\r" line endings were translated to "\n".
	FileNewlines
)

// File is one loaded module: normalized content plus its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
	lines   lineIndex
}

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return 0
	}
	return n
}

// Slice returns the content between two byte offsets, clamped to the file bounds.
func (f *File) Slice(start, end uint32) string {
	end = min(end, f.size())
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// LineCount returns the number of lines (a trailing newline does not open a new line).
func (f *File) LineCount() int {
	n := len(f.lines)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// Line returns the text of a 1-based line without its newline, or "" when
// the file has no such line.
func (f *File) Line(line int) string {
	sp := f.LineSpan(line)
	return f.Slice(sp.Start, sp.End)
}

// LineSpan returns the span of a 1-based line without its newline; an empty
// span at the end of the file when the line does not exist.
func (f *File) LineSpan(line int) Span {
	size := f.size()
	start, end, ok := f.lines.bounds(line, size)
	if !ok {
		return Span{File: f.ID, Start: size, End: size}
	}
	return Span{File: f.ID, Start: start, End: end}
}

// FormatPath renders the file path for humans.
// mode: "absolute", "relative", "basename"; any other value keeps the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if f.Flags&FileVirtual != 0 || baseDir == "" {
			return f.Path
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		// вне baseDir оставляем путь как есть
		if rel, err := filepath.Rel(baseDir, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	case "basename":
		return filepath.Base(f.Path)
	}
	return f.Path
}
