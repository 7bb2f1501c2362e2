package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"astroid/internal/diag"
	"astroid/internal/observ"
	"astroid/internal/source"
	"astroid/internal/trace"
)

// fileWork обрабатывает один предзагруженный файл.
type fileWork func(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, tm *observ.Timer) (*FileResult, error)

// listPyFiles возвращает отсортированный список всех *.py файлов в директории.
// Скрытые каталоги и __pycache__ пропускаются.
func listPyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "__pycache__") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// Files lists the files Diagnose visits for target: the file itself, or every
// *.py file under a directory in sorted order.
func Files(target string) ([]string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return []string{target}, nil
	}
	return listPyFiles(target)
}

// ParseDir parses every *.py file under dir in parallel. Results follow the
// sorted file order.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := listPyFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	roots := searchRoots(dir, opts.SearchPaths)
	work := func(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, tm *observ.Timer) (*FileResult, error) {
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
		return parseFile(ctx, fileSet, fileID, path, roots, opts, tm)
	}
	results, err := runFiles(ctx, fileSet, files, "parse", opts, work)
	return fileSet, results, err
}

// runFiles предзагружает файлы последовательно, затем обрабатывает их пулом
// из opts.Jobs горутин.
func runFiles(ctx context.Context, fileSet *source.FileSet, files []string, pass string, opts Options, work fileWork) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, passSpan := trace.Start(ctx, trace.ScopePass, pass)
	defer passSpan.End(fmt.Sprintf("%d files", len(files)))

	// Предзагрузка: FileSet дальше только читается
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error, len(files))
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был путь
			loadErrors[i] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = fileID
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()
			fctx, fileSpan := trace.Start(gctx, trace.ScopeFile, path)

			if loadErr, hadError := loadErrors[i]; hadError {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				results[i] = FileResult{Path: path, FileID: fileIDs[i], Bag: bag}
				fileSpan.End("load error")
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			tm := observ.NewTimer()
			res, err := work(fctx, fileSet, fileIDs[i], path, tm)
			if err != nil {
				fileSpan.End(err.Error())
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.SynError, source.Span{File: fileIDs[i]}, "parser failure: "+err.Error()))
				results[i] = FileResult{Path: path, FileID: fileIDs[i], Bag: bag}
				return nil
			}
			finishTiming(res, tm, pass, fileSet, opts)
			results[i] = *res

			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			fileSpan.Set("module", res.Module).End(string(status))
			emit(opts.Progress, Event{File: path, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
