package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/imports"
	"astroid/internal/observ"
	"astroid/internal/pyparse"
	"astroid/internal/source"
)

const defaultMaxDiagnostics = 100

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// searchRoots: каталог анализа первым, затем пути поиска из конфигурации.
func searchRoots(dir string, extra []string) []string {
	roots := make([]string, 0, len(extra)+1)
	roots = append(roots, dir)
	for _, p := range extra {
		if p != "" && p != dir {
			roots = append(roots, p)
		}
	}
	return roots
}

// Parse parses a single file. Imports are collected but not resolved.
func Parse(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	dir := filepath.Dir(path)
	fileSet := source.NewFileSetWithBase(dir)
	fileID, err := fileSet.Load(path)
	if err != nil {
		return fileSet, nil, err
	}
	tm := observ.NewTimer()
	res, err := parseFile(ctx, fileSet, fileID, path, searchRoots(dir, opts.SearchPaths), opts, tm)
	if err != nil {
		return fileSet, nil, err
	}
	finishTiming(res, tm, "parse", fileSet, opts)
	return fileSet, res, nil
}

// parseFile строит дерево уже загруженного файла и собирает его импорты.
func parseFile(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, roots []string, opts Options, tm *observ.Timer) (*FileResult, error) {
	module, pkg := imports.ModuleName(roots, path)
	bag := diag.NewBag(opts.maxDiagnostics())

	maxErrors, err := safecast.Conv[uint](opts.maxDiagnostics())
	if err != nil {
		return nil, err
	}

	idx := tm.Begin("parse")
	res, err := pyparse.ParseFile(ctx, fileSet, fileID, pyparse.Options{
		ModuleName: module,
		Package:    pkg,
		MaxErrors:  maxErrors,
		Reporter:   diag.BagReporter{Bag: bag},
	})
	if err != nil {
		tm.End(idx, err.Error())
		return nil, err
	}
	tm.End(idx, fmt.Sprintf("%d nodes", res.Tree.Nodes.Len()))

	return &FileResult{
		Path:    path,
		Module:  module,
		Package: pkg,
		FileID:  fileID,
		Tree:    res.Tree,
		Bag:     bag,
		Imports: collectImports(res.Tree, module, pkg),
	}, nil
}

// collectImports lists the modules referenced by Import and From statements in
// source order. `from . import x` yields one reference per imported name; `*`
// is skipped.
func collectImports(t *ast.Tree, module string, pkg bool) []ImportRef {
	var refs []ImportRef
	for _, id := range t.NodesOfKind(t.Root, ast.KindImport, ast.KindFrom) {
		span := t.Get(id).Span
		if d, ok := t.Import(id); ok {
			for _, n := range d.Names {
				refs = append(refs, ImportRef{Name: n.Name, Written: n.Name, Span: span, Whole: len(d.Names) == 1})
			}
			continue
		}
		d, _ := t.From(id)
		dots := strings.Repeat(".", d.Level)
		if d.Modname != "" || d.Level == 0 {
			refs = append(refs, ImportRef{
				Name:    imports.AbsoluteName(module, pkg, d.Modname, d.Level),
				Written: dots + d.Modname,
				Level:   d.Level,
				Span:    span,
				Whole:   true,
			})
			continue
		}
		for _, n := range d.Names {
			if n.Name == "*" {
				continue
			}
			refs = append(refs, ImportRef{
				Name:        imports.AbsoluteName(module, pkg, n.Name, d.Level),
				Written:     dots + n.Name,
				Level:       d.Level,
				Span:        span,
				FromPackage: true,
				Whole:       len(d.Names) == 1,
			})
		}
	}
	return refs
}

// finishTiming прикрепляет отчёт таймера к результату, если включены тайминги.
// The info diagnostic carries one note per phase and is added even when the
// bag is already full.
func finishTiming(res *FileResult, tm *observ.Timer, kind string, fileSet *source.FileSet, opts Options) {
	if !opts.Timings || res == nil {
		return
	}
	report := tm.Report()
	res.Timing = &report

	at := source.Span{File: res.FileID}
	d := diag.New(diag.SevInfo, diag.ObsTimings, at, fmt.Sprintf("%s took %.2f ms", kind, report.TotalMS))
	for _, p := range report.Phases {
		d = d.WithNote(at, p.String())
	}
	if !res.Bag.Add(d) {
		extra := diag.NewBag(1)
		extra.Add(d)
		res.Bag.Merge(extra)
	}
}
