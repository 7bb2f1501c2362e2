package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "astroid.toml"

type projectConfig struct {
	Analysis analysisConfig `toml:"analysis"`
	Cache    cacheConfig    `toml:"cache"`
}

type analysisConfig struct {
	SearchPaths []string `toml:"search_paths"`
	Exceptions  []string `toml:"exceptions"`
	Jobs        int      `toml:"jobs"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// projectManifest is a loaded astroid.toml; paths inside it are already
// resolved against Root.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest ищет astroid.toml вверх от startDir. Отсутствие файла
// не ошибка: возвращается nil.
func loadProjectManifest(startDir string) (*projectManifest, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return nil, err
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, err
	}
	return &projectManifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Analysis.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [analysis].jobs must not be negative", path)
	}

	// exceptions = [] означает то же, что отсутствие ключа
	if len(cfg.Analysis.Exceptions) == 0 {
		cfg.Analysis.Exceptions = nil
	}

	root := filepath.Dir(path)
	for i, p := range cfg.Analysis.SearchPaths {
		if strings.TrimSpace(p) == "" {
			return projectConfig{}, fmt.Errorf("%s: empty entry in [analysis].search_paths", path)
		}
		cfg.Analysis.SearchPaths[i] = resolvePath(root, p)
	}
	if cfg.Cache.Dir != "" {
		cfg.Cache.Dir = resolvePath(root, cfg.Cache.Dir)
	}
	return cfg, nil
}

func resolvePath(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// missingSearchPaths returns configured search paths that are not directories.
func (m *projectManifest) missingSearchPaths() []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, p := range m.Config.Analysis.SearchPaths {
		if st, err := os.Stat(p); err != nil || !st.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
