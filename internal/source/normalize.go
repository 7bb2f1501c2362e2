package source

import (
	"bytes"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeSource strips a UTF-8 BOM and translates every line ending
// ("\r\n" and a lone "\r") to "\n", the same universal-newline rule the
// Python tokenizer applies. The returned flags record what was changed.
func normalizeSource(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content = rest
		flags |= FileHadBOM
	}
	first := bytes.IndexByte(content, '\r')
	if first < 0 {
		return content, flags
	}
	out := make([]byte, first, len(content))
	copy(out, content[:first])
	for i := first; i < len(content); i++ {
		c := content[i]
		if c != '\r' {
			out = append(out, c)
			continue
		}
		out = append(out, '\n')
		if i+1 < len(content) && content[i+1] == '\n' {
			i++
		}
	}
	return out, flags | FileNewlines
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
