package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"astroid/internal/diag"
	"astroid/internal/diagfmt"
	"astroid/internal/driver"
	"astroid/internal/source"
	"astroid/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// printDiagnostics выводит диагностики в stderr. Info-диагностики (тайминги)
// печатаются только с --timings.
func printDiagnostics(w io.Writer, env *cliEnv, fs *source.FileSet, bags ...*diag.Bag) {
	opts := diagfmt.PrettyOpts{
		Color:     env.colorStderr,
		Context:   2,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: env.timings,
		ShowFixes: env.suggest,
	}
	for _, bag := range bags {
		if bag == nil || (!bag.HasErrors() && !bag.HasWarnings() && !env.timings) {
			continue
		}
		bag.Sort()
		diagfmt.Pretty(w, bag, fs, opts)
	}
}

func resultBags(results []driver.FileResult) []*diag.Bag {
	bags := make([]*diag.Bag, 0, len(results))
	for _, r := range results {
		bags = append(bags, r.Bag)
	}
	return bags
}

func anyErrors(bags []*diag.Bag) bool {
	for _, b := range bags {
		if b != nil && b.HasErrors() {
			return true
		}
	}
	return false
}

type dirRun func(ctx context.Context, opts driver.Options) (*source.FileSet, []driver.FileResult, error)

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// runWithUI выполняет run в фоне, отображая прогресс через bubbletea.
func runWithUI(ctx context.Context, title, base string, files []string, opts driver.Options, run dirRun) (*source.FileSet, []driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := run(ctx, optsCopy)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, base, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// UI больше не читает события
	go func() {
		for range events {
		}
	}()

	var outcome dirOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// UI закрыт до конца анализа (Ctrl+C): отменяем и ждём воркеры
		cancel()
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
