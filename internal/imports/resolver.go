package imports

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/infer"
	"astroid/internal/pyparse"
	"astroid/internal/source"
)

// ErrNoModule is returned by resolvers when no file provides the module.
var ErrNoModule = errors.New("no module")

// BuildError reports a module whose source could not be turned into a tree.
type BuildError struct {
	Module string
	Path   string
	Diags  []diag.Diagnostic
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s (%s): %d syntax errors", e.Module, e.Path, len(e.Diags))
}

// Resolver loads module trees by absolute dotted name.
type Resolver interface {
	ImportModule(ctx context.Context, name string) (*ast.Tree, error)
}

// DoImportModule loads the module modname as imported by the Import/From
// statement id. Importing the enclosing module itself, a missing module and a
// module that fails to build are all reported as infer.ErrInferenceFailed.
func DoImportModule(ctx context.Context, t *ast.Tree, id ast.NodeID, modname string, r Resolver) (*ast.Tree, error) {
	_, level, ok := importNames(t, id)
	if !ok {
		return nil, fmt.Errorf("%s is not an import: %w", t.Kind(id), infer.ErrInvalidOperation)
	}
	importer := t.ModuleName(id)
	pkg := false
	if mod, ok := t.Module(t.RootOf(id)); ok {
		pkg = mod.Package
	}
	abs := AbsoluteName(importer, pkg, modname, level)
	if abs == importer {
		return nil, fmt.Errorf("%w: module importing itself: %s", infer.ErrInferenceFailed, modname)
	}
	tree, err := r.ImportModule(ctx, abs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", infer.ErrInferenceFailed, modname, err)
	}
	return tree, nil
}

type entry struct {
	tree *ast.Tree
	err  error
}

// PathResolver finds modules under a list of search roots, parses them with
// pyparse and memoizes the result per dotted name. Safe for concurrent use.
type PathResolver struct {
	roots     []string
	fs        *source.FileSet
	maxErrors uint

	mu      sync.RWMutex
	modules map[string]entry
	group   singleflight.Group
}

func NewPathResolver(fs *source.FileSet, roots []string, maxErrors uint) *PathResolver {
	return &PathResolver{
		roots:     append([]string(nil), roots...),
		fs:        fs,
		maxErrors: maxErrors,
		modules:   make(map[string]entry),
	}
}

// Find returns the file providing module name and whether it is a package.
func (r *PathResolver) Find(name string) (path string, pkg bool, err error) {
	if name == "" {
		return "", false, fmt.Errorf("%w: empty module name", ErrNoModule)
	}
	rel := filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))
	for _, root := range r.roots {
		candidate := filepath.Join(root, rel+".py")
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, false, nil
		}
		candidate = filepath.Join(root, rel, "__init__.py")
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, true, nil
		}
	}
	return "", false, fmt.Errorf("%w: %s", ErrNoModule, name)
}

func (r *PathResolver) ImportModule(ctx context.Context, name string) (*ast.Tree, error) {
	r.mu.RLock()
	e, ok := r.modules[name]
	r.mu.RUnlock()
	if ok {
		return e.tree, e.err
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		tree, err := r.build(ctx, name)
		if ctx.Err() == nil {
			// отмену не кэшируем
			r.mu.Lock()
			r.modules[name] = entry{tree: tree, err: err}
			r.mu.Unlock()
		}
		return tree, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*ast.Tree), nil
}

func (r *PathResolver) build(ctx context.Context, name string) (*ast.Tree, error) {
	path, pkg, err := r.Find(name)
	if err != nil {
		return nil, err
	}
	file, err := r.fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	bag := diag.NewBag(max(int(r.maxErrors), 16))
	res, err := pyparse.ParseFile(ctx, r.fs, file, pyparse.Options{
		ModuleName: name,
		Package:    pkg,
		MaxErrors:  r.maxErrors,
		Reporter:   diag.BagReporter{Bag: bag},
	})
	if err != nil {
		return nil, err
	}
	if bag.HasErrors() {
		return nil, &BuildError{Module: name, Path: path, Diags: bag.Items()}
	}
	return res.Tree, nil
}

// ModuleName derives the dotted module name of path relative to the first
// root containing it; __init__.py names its package.
func ModuleName(roots []string, path string) (name string, pkg bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, root := range roots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(rootAbs, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return dotted(rel)
	}
	return dotted(filepath.Base(abs))
}

func dotted(rel string) (string, bool) {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".py")
	pkg := false
	if rel == "__init__" || strings.HasSuffix(rel, "/__init__") {
		pkg = true
		rel = strings.TrimSuffix(strings.TrimSuffix(rel, "__init__"), "/")
	}
	return strings.ReplaceAll(rel, "/", "."), pkg
}
