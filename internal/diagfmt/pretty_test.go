package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"astroid/internal/diag"
	"astroid/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/mod.py", []byte("x = foo(\n  bar)\n"))
	fs.SetBaseDir("/home/user/project")
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SynError, source.Span{File: fileID, Start: 4, End: 7}, "unexpected token").
		WithNote(source.Span{File: fileID, Start: 11, End: 14}, "argument starts here").
		WithFix("drop call", diag.FixEdit{Span: source.Span{File: fileID, Start: 4, End: 7}, NewText: "bar"})
	bag.Add(d)
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)
	tests := []struct {
		name   string
		mode   PathMode
		prefix string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/mod.py:1:5:"},
		{"Auto keeps path", PathModeAuto, "/home/user/project/src/mod.py:1:5:"},
		{"Basename only", PathModeBasename, "mod.py:1:5:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			if !strings.HasPrefix(output, tt.prefix) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.prefix, output)
			}
			if !strings.Contains(output, "ERROR SYN2001: unexpected token") {
				t.Errorf("missing header in:\n%s", output)
			}
		})
	}
}

func TestPrettyContext(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	want := strings.Join([]string{
		"mod.py:1:5: ERROR SYN2001: unexpected token",
		"1 | x = foo(",
		"  |     ^~~",
		"2 |   bar)",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("Pretty() =\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, ShowFixes: true})
	output := buf.String()
	for _, want := range []string{
		"note: mod.py:2:3: argument starts here",
		"fix: drop call",
		`1:5 replace "foo" with "bar"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escape codes: %q", colored.String())
	}
}
