package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"astroid/internal/diag"
	"astroid/internal/diagfmt"
	"astroid/internal/driver"
	"astroid/internal/source"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [flags] <file.py|directory>",
	Short: "Report syntax errors and unresolved imports",
	Long: `Parse every module under the target and check its imports against the
search roots (the target directory plus analysis.search_paths from astroid.toml).
With [cache] enabled in astroid.toml unchanged files are not parsed again.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	diagnoseCmd.Flags().String("min-severity", "warning", "lowest severity to report (info|warning|error)")
	diagnoseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	diagnoseCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagnoseCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
}

// fileDiagnostics - JSON-вывод diagnose: диагностики по файлам.
type fileDiagnostics struct {
	File   string `json:"file"`
	Module string `json:"module,omitempty"`
	Cached bool   `json:"cached,omitempty"`
	diagfmt.DiagnosticsOutput
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	outFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat = strings.ToLower(outFormat)
	switch outFormat {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", outFormat)
	}
	sevFlag, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSev, err := diag.ParseSeverity(sevFlag)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	env, err := readEnv(cmd)
	if err != nil {
		return err
	}
	if env.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	opts, err := env.driverOptions(true)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if st.IsDir() && outFormat == "pretty" && !env.quiet && shouldUseTUI(mode) {
		files, err := driver.Files(target)
		if err != nil {
			return err
		}
		run := func(ctx context.Context, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
			return driver.Diagnose(ctx, target, opts)
		}
		fs, results, err = runWithUI(cmd.Context(), "diagnose", target, files, opts, run)
		if err != nil {
			return err
		}
	} else if fs, results, err = driver.Diagnose(cmd.Context(), target, opts); err != nil {
		return err
	}

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	bags := resultBags(results)
	// тайминги - info, с --timings показываем их всегда
	if env.timings {
		minSev = diag.SevInfo
	}
	shown := make([]*diag.Bag, len(bags))
	for i, bag := range bags {
		shown[i] = filterSeverity(bag, minSev)
	}

	switch outFormat {
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     env.suggest,
		}
		out := make([]fileDiagnostics, 0, len(results))
		for i, res := range results {
			bag := shown[i]
			out = append(out, fileDiagnostics{
				File:              fs.Get(res.FileID).FormatPath(pathMode.String(), fs.BaseDir()),
				Module:            res.Module,
				Cached:            res.Cached,
				DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(bag, fs, jsonOpts),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	case "short":
		var all []diag.Diagnostic
		for _, bag := range shown {
			all = append(all, bag.Items()...)
		}
		for _, line := range diag.FormatShort(all, fs, diag.ShortOpts{Notes: env.timings}) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	default:
		printDiagnostics(cmd.ErrOrStderr(), env, fs, shown...)
		if !env.quiet {
			printSummary(cmd, results)
		}
	}

	if anyErrors(bags) {
		return errHasErrors
	}
	return nil
}

// filterSeverity копирует из bag диагностики не ниже floor.
func filterSeverity(bag *diag.Bag, floor diag.Severity) *diag.Bag {
	if bag == nil {
		return diag.NewBag(0)
	}
	out := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Severity >= floor {
			out.Add(d)
		}
	}
	return out
}

func printSummary(cmd *cobra.Command, results []driver.FileResult) {
	var errs, warns, cached int
	for _, res := range results {
		if res.Cached {
			cached++
		}
		for _, d := range res.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d files checked (%d cached): %d errors, %d warnings\n",
		len(results), cached, errs, warns)
}
