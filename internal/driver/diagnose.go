package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"astroid/internal/diag"
	"astroid/internal/imports"
	"astroid/internal/observ"
	"astroid/internal/source"
	"astroid/internal/trace"
)

// Diagnose parses target (a *.py file or a directory) and checks the imports
// of every module: self-imports and imports that cannot be found under the
// search roots. With opts.Cache set unchanged files are not parsed again;
// their results carry no Tree. Import checks always run, since they depend on
// the filesystem rather than on the file content.
func Diagnose(ctx context.Context, target string, opts Options) (*source.FileSet, []FileResult, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, nil, err
	}
	dir := target
	if !st.IsDir() {
		dir = filepath.Dir(target)
	}
	files, err := Files(target)
	if err != nil {
		return nil, nil, err
	}

	maxErrors, err := safecast.Conv[uint](opts.maxDiagnostics())
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	roots := searchRoots(dir, opts.SearchPaths)
	resolver := imports.NewPathResolver(fileSet, roots, maxErrors)

	work := func(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, tm *observ.Timer) (*FileResult, error) {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
		res, err := parseCached(ctx, fileSet, fileID, path, roots, opts, tm)
		if err != nil {
			return nil, err
		}
		if res.Cached {
			emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusCached})
		}
		emit(opts.Progress, Event{File: path, Stage: StageImports, Status: StatusWorking})
		idx := tm.Begin("imports")
		checkImports(res, resolver)
		tm.End(idx, fmt.Sprintf("%d refs", len(res.Imports)))
		return res, nil
	}
	results, err := runFiles(ctx, fileSet, files, "diagnose", opts, work)
	return fileSet, results, err
}

// parseCached returns the cached result for unchanged content, otherwise
// parses the file and stores the outcome. Cache failures are reported as
// warnings and never fail the file.
func parseCached(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, roots []string, opts Options, tm *observ.Timer) (*FileResult, error) {
	if opts.Cache == nil {
		return parseFile(ctx, fileSet, fileID, path, roots, opts, tm)
	}
	file := fileSet.Get(fileID)
	module, pkg := imports.ModuleName(roots, path)
	key := CacheKey(module, pkg, file.Hash, opts.maxDiagnostics())

	var cacheWarn *diag.Diagnostic
	idx := tm.Begin("cache")
	var payload DiskPayload
	ok, err := opts.Cache.Get(key, &payload)
	switch {
	case err != nil:
		d := diag.NewWarning(diag.IOCacheError, source.Span{File: fileID}, "cache read failed: "+err.Error())
		cacheWarn = &d
	case ok && payload.ContentHash == Digest(file.Hash):
		if res := diskPayloadToResult(&payload, fileID, path, opts.maxDiagnostics()); res != nil {
			tm.End(idx, "hit")
			trace.Mark(ctx, trace.ScopeFile, "cache", "hit")
			return res, nil
		}
	}
	tm.End(idx, "miss")
	trace.Mark(ctx, trace.ScopeFile, "cache", "miss")

	res, err := parseFile(ctx, fileSet, fileID, path, roots, opts, tm)
	if err != nil {
		return nil, err
	}
	if err := opts.Cache.Put(key, resultToDiskPayload(res, file.Hash)); err != nil {
		d := diag.NewWarning(diag.IOCacheError, source.Span{File: fileID}, "cache write failed: "+err.Error())
		cacheWarn = &d
	}
	if cacheWarn != nil {
		res.Bag.Add(*cacheWarn)
	}
	return res, nil
}

// checkImports reports a module importing itself and imports that no search
// root provides. An absolute import whose top-level package is not under any
// root belongs to the standard library or site-packages and is left alone.
func checkImports(res *FileResult, r *imports.PathResolver) {
	for _, ref := range res.Imports {
		switch {
		case ref.Name == "":
			res.Bag.Add(diag.NewWarning(diag.AnaImportUnresolved, ref.Span,
				fmt.Sprintf("relative import %q goes beyond the top-level package", ref.Written)))
			continue
		case ref.Name == res.Module:
			d := diag.NewWarning(diag.AnaImportSelf, ref.Span, "module importing itself: "+ref.Written)
			if ref.Whole {
				d = d.WithFix("remove the import", diag.FixEdit{Span: ref.Span})
			}
			res.Bag.Add(d)
			continue
		}
		if _, _, err := r.Find(ref.Name); err == nil {
			continue
		}
		if ref.FromPackage {
			if i := strings.LastIndexByte(ref.Name, '.'); i > 0 {
				if _, _, err := r.Find(ref.Name[:i]); err == nil {
					continue
				}
			}
		}
		if ref.Level == 0 {
			top, _, _ := strings.Cut(ref.Name, ".")
			if _, _, err := r.Find(top); err != nil {
				continue
			}
		}
		res.Bag.Add(diag.NewWarning(diag.AnaImportUnresolved, ref.Span,
			fmt.Sprintf("cannot resolve import %q", ref.Written)))
	}
}
