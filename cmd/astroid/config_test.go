package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindConfigSearchesUpward(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig: ok=%v err=%v", ok, err)
	}
	wantAbs, _ := filepath.Abs(want)
	if got != wantAbs {
		t.Fatalf("findConfig = %q, want %q", got, wantAbs)
	}
}

func TestLoadProjectManifestMissing(t *testing.T) {
	dir := t.TempDir()
	m, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// выше TempDir может найтись чужой astroid.toml, но не в самой директории
	if m != nil && filepath.Dir(m.Path) == dir {
		t.Fatalf("unexpected manifest %q", m.Path)
	}
	var none *projectManifest
	if got := none.missingSearchPaths(); got != nil {
		t.Fatalf("nil manifest reported missing paths: %v", got)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, root, `# project
[analysis]
search_paths = ["src", "vendor/lib"]
exceptions = ["ValueError", "KeyError"]
jobs = 3

[cache]
enabled = true
dir = ".astroid-cache"
`)

	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	wantPaths := []string{filepath.Join(root, "src"), filepath.Join(root, "vendor", "lib")}
	if len(cfg.Analysis.SearchPaths) != len(wantPaths) {
		t.Fatalf("search paths = %v", cfg.Analysis.SearchPaths)
	}
	for i, p := range wantPaths {
		if cfg.Analysis.SearchPaths[i] != p {
			t.Errorf("search_paths[%d] = %q, want %q", i, cfg.Analysis.SearchPaths[i], p)
		}
	}
	if strings.Join(cfg.Analysis.Exceptions, ",") != "ValueError,KeyError" {
		t.Errorf("exceptions = %v", cfg.Analysis.Exceptions)
	}
	if cfg.Analysis.Jobs != 3 {
		t.Errorf("jobs = %d", cfg.Analysis.Jobs)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(root, ".astroid-cache") {
		t.Errorf("cache = %+v", cfg.Cache)
	}

	m := &projectManifest{Path: path, Root: root, Config: cfg}
	missing := m.missingSearchPaths()
	if len(missing) != 1 || missing[0] != filepath.Join(root, "vendor", "lib") {
		t.Errorf("missingSearchPaths = %v", missing)
	}
}

func TestLoadProjectConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "[analysis]\nsearch_path = [\"src\"]\n", "unknown keys: analysis.search_path"},
		{"unknown table", "[lint]\nstrict = true\n", "unknown keys"},
		{"negative jobs", "[analysis]\njobs = -1\n", "must not be negative"},
		{"empty search path", "[analysis]\nsearch_paths = [\" \"]\n", "empty entry"},
		{"bad toml", "[analysis\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.data)
			_, err := loadProjectConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("readUIMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmptyExceptionsMeanNoFilter(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[analysis]\nexceptions = []\n")
	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatalf("loadProjectConfig: %v", err)
	}
	if cfg.Analysis.Exceptions != nil {
		t.Fatalf("exceptions = %#v, want nil", cfg.Analysis.Exceptions)
	}

	tests := []struct {
		name     string
		manifest *projectManifest
		flag     []string
		want     []string
	}{
		{"no config", nil, nil, nil},
		{"empty config list", &projectManifest{Config: projectConfig{Analysis: analysisConfig{Exceptions: []string{}}}}, nil, nil},
		{"config list", &projectManifest{Config: projectConfig{Analysis: analysisConfig{Exceptions: []string{"KeyError"}}}}, nil, []string{"KeyError"}},
		{"flag wins", &projectManifest{Config: projectConfig{Analysis: analysisConfig{Exceptions: []string{"KeyError"}}}}, []string{"OSError"}, []string{"OSError"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &cliEnv{manifest: tt.manifest}
			got := env.exceptions(tt.flag)
			if (got == nil) != (tt.want == nil) || strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("exceptions = %#v, want %#v", got, tt.want)
			}
		})
	}
}
