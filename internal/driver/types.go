package driver

import (
	"time"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/observ"
	"astroid/internal/source"
)

// Stage describes a per-file pipeline phase.
type Stage string

const (
	// StageParse builds the tree (or restores a cached result).
	StageParse Stage = "parse"
	// StageImports resolves the imports of a parsed module.
	StageImports Stage = "imports"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Called from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Options configures Parse, ParseDir and Diagnose.
type Options struct {
	MaxDiagnostics int
	// Jobs bounds the worker pool; <= 0 means GOMAXPROCS.
	Jobs int
	// SearchPaths are extra import roots after the analysed directory.
	SearchPaths []string
	// Cache, when set, lets Diagnose skip parsing of unchanged files.
	Cache    *DiskCache
	Timings  bool
	Progress ProgressSink
}

// ImportRef is one module reference made by an Import or From statement.
type ImportRef struct {
	// Name is the absolute dotted module name.
	Name string
	// Written is the module as it appears in the source, leading dots included.
	Written string
	Level   int
	Span    source.Span
	// FromPackage marks `from . import x`: x may be an attribute of the
	// package rather than a submodule.
	FromPackage bool
	// Whole: the statement at Span references only this module, so removing
	// the statement removes exactly this import.
	Whole bool
}

// FileResult is the outcome of analysing one file.
type FileResult struct {
	Path    string
	Module  string
	Package bool
	FileID  source.FileID
	// Tree is nil when the file failed to load or the result came from the cache.
	Tree    *ast.Tree
	Bag     *diag.Bag
	Imports []ImportRef
	Cached  bool
	Timing  *observ.Report
}
