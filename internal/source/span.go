package source

// Span is a half-open byte range [Start, End) inside one file. The zero
// Span of a file is treated as "no position yet" by Cover.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	switch {
	case s.File != other.File:
		return s
	case s.Start == 0 && s.End == 0:
		return other
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}
