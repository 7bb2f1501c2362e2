package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"astroid/internal/diag"
)

func messages(bag *diag.Bag, code diag.Code) []string {
	var out []string
	for _, d := range bag.Items() {
		if d.Code == code {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestDiagnoseImports(t *testing.T) {
	dir := t.TempDir()
	ext := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"mod.py": strings.Join([]string{
			"import mod",
			"import os.path",
			"import pkg.nothere",
			"import pkg.sub",
			"from pkg import sub",
			"from .. import up",
			"import extlib",
			"import extlib.gone",
			"",
		}, "\n"),
		"pkg/__init__.py": "VALUE = 1\n",
		"pkg/sub.py":      "from . import VALUE\nfrom . import *\n",
	})
	writeFiles(t, ext, map[string]string{"extlib/__init__.py": ""})

	fs, results, err := Diagnose(context.Background(), dir, Options{SearchPaths: []string{ext}})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	mod := results[0]
	if mod.Module != "mod" {
		t.Fatalf("first result is %q", mod.Module)
	}
	if got := messages(mod.Bag, diag.AnaImportSelf); len(got) != 1 || got[0] != "module importing itself: mod" {
		t.Errorf("self-import diagnostics = %q", got)
	}
	for _, d := range mod.Bag.Items() {
		if d.Code != diag.AnaImportSelf {
			continue
		}
		if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 || fs.Text(d.Fixes[0].Edits[0].Span) != "import mod" {
			t.Errorf("self-import fix = %+v", d.Fixes)
		}
	}
	want := []string{
		`cannot resolve import "pkg.nothere"`,
		`cannot resolve import "..up"`,
		`cannot resolve import "extlib.gone"`,
	}
	got := messages(mod.Bag, diag.AnaImportUnresolved)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("unresolved = %q, want %q", got, want)
	}
	for _, d := range mod.Bag.Items() {
		if fs.Text(d.Primary) == "" {
			t.Errorf("%s has no source text", d.Message)
		}
	}

	// pkg.sub: атрибут пакета и звёздочка не считаются ошибкой
	for _, res := range results[1:] {
		if res.Bag.Len() != 0 {
			t.Errorf("%s: unexpected diagnostics %+v", res.Module, res.Bag.Items())
		}
	}
}

func TestDiagnoseSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.py":     "import b\nimport c\n",
		"b.py":     "",
		"c/none.x": "",
	})
	_, results, err := Diagnose(context.Background(), filepath.Join(dir, "a.py"), Options{})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	// c - каталог без __init__.py: вне корней, пропускается
	if n := results[0].Bag.Len(); n != 0 {
		t.Errorf("diagnostics: %+v", results[0].Bag.Items())
	}
}

func TestDiagnoseUsesCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	writeFiles(t, dir, map[string]string{
		"a.py": "import a\nimport b.missing\n",
		"b/__init__.py": "def f(:\n",
	})
	opts := Options{Cache: cache, Timings: true}

	run := func() []FileResult {
		t.Helper()
		_, results, err := Diagnose(context.Background(), dir, opts)
		if err != nil {
			t.Fatalf("Diagnose: %v", err)
		}
		return results
	}
	summary := func(res FileResult) map[diag.Code]int {
		c := codes(res.Bag)
		delete(c, diag.ObsTimings)
		return c
	}

	first := run()
	second := run()
	for i := range first {
		if first[i].Cached || first[i].Tree == nil {
			t.Errorf("%s: first run must parse", first[i].Path)
		}
		if !second[i].Cached || second[i].Tree != nil {
			t.Errorf("%s: second run must come from the cache", second[i].Path)
		}
		a, b := summary(first[i]), summary(second[i])
		if len(a) != len(b) {
			t.Errorf("%s: diagnostics differ: %v vs %v", first[i].Path, a, b)
		}
		for code, n := range a {
			if b[code] != n {
				t.Errorf("%s: %s count %d vs %d", first[i].Path, code.ID(), n, b[code])
			}
		}
	}
	if c := summary(second[0]); c[diag.AnaImportSelf] != 1 || c[diag.AnaImportUnresolved] != 1 {
		t.Errorf("cached a.py import checks = %v", c)
	}
	if !second[1].Bag.HasErrors() {
		t.Errorf("cached b/__init__.py lost its syntax error")
	}
	if phase := second[0].Timing.Phases[0]; phase.Name != "cache" || phase.Note != "hit" {
		t.Errorf("cache phase = %+v", phase)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third := run()
	if third[0].Cached || third[0].Bag.HasWarnings() {
		t.Errorf("changed a.py: cached=%v diags=%+v", third[0].Cached, third[0].Bag.Items())
	}
	if !third[1].Cached {
		t.Errorf("unchanged b/__init__.py should stay cached")
	}
}
