package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags returns every flag changed by a previous run to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err = rootCmd.ExecuteContext(context.Background())
	_ = teardownCommand(rootCmd, nil)
	return out.String(), errOut.String(), err
}

func writePy(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBlockRangeCommand(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "x = 1\nif x:\n    y = 2\n    y = 3\nelse:\n    y = 4\n")

	tests := []struct {
		line string
		want string
	}{
		{"2", "If at line 2: 2-4\n"},
		{"4", "If at line 2: 4-4\n"},
	}
	for _, tt := range tests {
		t.Run("line "+tt.line, func(t *testing.T) {
			out, _, err := runCLI(t, "blockrange", path, tt.line)
			if err != nil {
				t.Fatalf("blockrange: %v", err)
			}
			if out != tt.want {
				t.Fatalf("got %q, want %q", out, tt.want)
			}
		})
	}

	_, stderr, err := runCLI(t, "blockrange", path, "1")
	if !errors.Is(err, errHasErrors) {
		t.Fatalf("expected errHasErrors, got %v", err)
	}
	if !strings.Contains(stderr, "no block contains line 1") {
		t.Fatalf("stderr = %q", stderr)
	}

	if _, _, err := runCLI(t, "blockrange", path, "zero"); err == nil || !strings.Contains(err.Error(), "invalid line number") {
		t.Fatalf("expected invalid line error, got %v", err)
	}
}

func TestBlockRangeCommandMultilineStatement(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "if a:\n    x = [\n        1,\n    ]\ny = 2\n")
	out, _, err := runCLI(t, "blockrange", path, "4")
	if err != nil {
		t.Fatalf("blockrange: %v", err)
	}
	if want := "If at line 1: 4-4\n"; out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestExclusiveCommand(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "if x:\n    a = 1\nelse:\n    a = 2\nb = 3\n")

	tests := []struct {
		l1, l2 string
		want   string
	}{
		{"2", "4", "true\n"},
		{"2", "5", "false\n"},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, "exclusive", path, tt.l1, tt.l2)
		if err != nil {
			t.Fatalf("exclusive %s %s: %v", tt.l1, tt.l2, err)
		}
		if out != tt.want {
			t.Errorf("exclusive %s %s = %q, want %q", tt.l1, tt.l2, out, tt.want)
		}
	}

	_, stderr, err := runCLI(t, "exclusive", path, "2", "3")
	if err == nil {
		// строка 3 - это else:, отдельного оператора там нет
		t.Fatal("expected error for a line without a statement")
	}
	if !strings.Contains(stderr, "no statement starts at line 3") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestArgsCommand(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py",
		"def f(a, b=1, *args, **kw):\n    pass\n\nclass C:\n    def m(self, x=None):\n        pass\n")

	out, _, err := runCLI(t, "args", path, "f")
	if err != nil {
		t.Fatalf("args f: %v", err)
	}
	want := "def f(a, b=1, *args, **kw)\n  a (#0)\n  b (#1) = 1\n  *args\n  **kw\n"
	if out != want {
		t.Fatalf("args f:\n%s\nwant:\n%s", out, want)
	}

	out, _, err = runCLI(t, "args", path, "C.m")
	if err != nil {
		t.Fatalf("args C.m: %v", err)
	}
	if !strings.HasPrefix(out, "def C.m(self, x=None)\n") {
		t.Fatalf("args C.m = %q", out)
	}

	_, stderr, err := runCLI(t, "args", path, "m")
	if err == nil || !strings.Contains(stderr, `no function named "m"`) {
		t.Fatalf("args m: err=%v stderr=%q", err, stderr)
	}
}

func TestUnpackCommand(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "a = (1, [2, 3])\nb = a\nc = f()\n")

	tests := []struct {
		line string
		want string
	}{
		{"1", "1\n2\n3\n"},
		{"2", "1\n2\n3\n"},
		{"3", "Unknown\n"},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, "unpack", path, tt.line)
		if err != nil {
			t.Fatalf("unpack %s: %v", tt.line, err)
		}
		if out != tt.want {
			t.Errorf("unpack %s = %q, want %q", tt.line, out, tt.want)
		}
	}
}

func TestDiagnoseCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "pkg/__init__.py", "")
	writePy(t, dir, "pkg/a.py", "import pkg.a\nfrom . import missing\n")

	out, _, err := runCLI(t, "diagnose", "--format", "json", dir)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	var files []fileDiagnostics
	if err := json.Unmarshal([]byte(out), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	a := files[1]
	if a.Module != "pkg.a" || a.File != "pkg/a.py" {
		t.Fatalf("second entry = %+v", a)
	}
	var messages []string
	for _, d := range a.Diagnostics {
		messages = append(messages, d.Message)
	}
	joined := strings.Join(messages, "\n")
	for _, want := range []string{"module importing itself: pkg.a", `cannot resolve import ".missing"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("diagnostics %q lack %q", joined, want)
		}
	}
}

func TestParseCommandSyntaxError(t *testing.T) {
	path := writePy(t, t.TempDir(), "bad.py", "def f(:\n    pass\n")

	_, stderr, err := runCLI(t, "parse", path)
	if !errors.Is(err, errHasErrors) {
		t.Fatalf("expected errHasErrors, got %v", err)
	}
	if !strings.Contains(stderr, "bad.py") {
		t.Fatalf("stderr does not name the file: %q", stderr)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "astroid" || payload.Version == "" || payload.Go == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestUnpackCommandTypes(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "a = [1, 'x']\n")
	out, _, err := runCLI(t, "unpack", "--types", path, "1")
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "# __builtin__.int") || !strings.HasSuffix(lines[1], "# __builtin__.str") {
		t.Fatalf("unpack --types = %q", out)
	}
}

func TestGetitemCommand(t *testing.T) {
	path := writePy(t, t.TempDir(), "mod.py", "seq = (10, 20, 30)\ntext = 'abc'\nd = {'k': 5, 'j': 6}\nn = 7\n")

	tests := []struct {
		name string
		line string
		key  string
		want string
	}{
		{"tuple index", "1", "1", "20\n"},
		{"negative index", "1", "-1", "30\n"},
		{"string char", "2", "0", "'a'\n"},
		{"dict key", "3", "j", "6\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "getitem", "--", path, tt.line, tt.key)
			if err != nil {
				t.Fatalf("getitem: %v", err)
			}
			if out != tt.want {
				t.Fatalf("got %q, want %q", out, tt.want)
			}
		})
	}

	failures := []struct {
		name string
		line string
		key  string
		want string
	}{
		{"out of range", "1", "5", "out of range"},
		{"missing key", "3", "zz", "not found"},
		{"int not subscriptable", "4", "0", "not subscriptable"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, "getitem", "--", path, tt.line, tt.key)
			if !errors.Is(err, errHasErrors) {
				t.Fatalf("expected errHasErrors, got %v", err)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Fatalf("stderr %q does not mention %q", stderr, tt.want)
			}
		})
	}
}

func TestDiagnoseCommandShort(t *testing.T) {
	dir := t.TempDir()
	writePy(t, dir, "app.py", "import app\nx = (\n")

	out, _, err := runCLI(t, "diagnose", "--format", "short", dir)
	if !errors.Is(err, errHasErrors) {
		t.Fatalf("expected errHasErrors, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("short output = %q", out)
	}
	if want := "warning ANA3001 app.py:1:1 module importing itself: app"; lines[0] != want {
		t.Errorf("first line = %q, want %q", lines[0], want)
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "error SYN") {
			t.Errorf("unexpected line %q", l)
		}
	}

	out, _, _ = runCLI(t, "diagnose", "--format", "short", "--min-severity", "error", dir)
	if strings.Contains(out, "ANA3001") {
		t.Errorf("warning not filtered: %q", out)
	}
}
