package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"astroid/internal/diagfmt"
	"astroid/internal/driver"
	"astroid/internal/format"
	"astroid/internal/source"
)

var errHasErrors = errors.New("analysis reported errors")

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.py|directory>",
	Short: "Parse Python sources and print the syntax tree",
	Long: `Parse a Python module (or every *.py file in a directory) and print the
resulting tree. Syntax errors are reported on stderr; the tree built from the
recoverable part of the file is still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json|source)")
	parseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
}

func runParse(cmd *cobra.Command, args []string) error {
	target := args[0]

	outFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	outFormat = strings.ToLower(outFormat)
	switch outFormat {
	case "pretty", "tree", "json", "source":
	default:
		return fmt.Errorf("unknown format: %s", outFormat)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	env, err := readEnv(cmd)
	if err != nil {
		return err
	}
	opts, err := env.driverOptions(false)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	out := cmd.OutOrStdout()

	if !st.IsDir() {
		fs, res, err := driver.Parse(cmd.Context(), target, opts)
		if err != nil {
			return err
		}
		printDiagnostics(cmd.ErrOrStderr(), env, fs, res.Bag)
		if err := writeTree(out, outFormat, fs, res); err != nil {
			return err
		}
		if res.Bag.HasErrors() {
			return errHasErrors
		}
		return nil
	}

	// Без TUI для машинного вывода
	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if outFormat != "json" && !env.quiet && shouldUseTUI(mode) {
		files, err := driver.Files(target)
		if err != nil {
			return err
		}
		run := func(ctx context.Context, opts driver.Options) (*source.FileSet, []driver.FileResult, error) {
			return driver.ParseDir(ctx, target, opts)
		}
		fs, results, err = runWithUI(cmd.Context(), "parse", target, files, opts, run)
		if err != nil {
			return err
		}
	} else if fs, results, err = driver.ParseDir(cmd.Context(), target, opts); err != nil {
		return err
	}

	bags := resultBags(results)
	printDiagnostics(cmd.ErrOrStderr(), env, fs, bags...)

	if outFormat == "json" {
		trees := make(map[string]diagfmt.ASTNodeOutput, len(results))
		for _, res := range results {
			if res.Tree == nil {
				continue
			}
			node, err := diagfmt.BuildASTJSON(res.Tree)
			if err != nil {
				return err
			}
			trees[fs.Get(res.FileID).FormatPath("relative", fs.BaseDir())] = node
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(trees); err != nil {
			return err
		}
	} else {
		for i := range results {
			res := &results[i]
			if res.Tree == nil {
				continue
			}
			if !env.quiet {
				fmt.Fprintf(out, "== %s ==\n", fs.Get(res.FileID).FormatPath("relative", fs.BaseDir()))
			}
			if err := writeTree(out, outFormat, fs, res); err != nil {
				return err
			}
		}
	}

	if anyErrors(bags) {
		return errHasErrors
	}
	return nil
}

func writeTree(w io.Writer, outFormat string, fs *source.FileSet, res *driver.FileResult) error {
	if res.Tree == nil {
		return nil
	}
	switch outFormat {
	case "tree":
		return diagfmt.FormatASTTree(w, res.Tree, fs)
	case "json":
		return diagfmt.FormatASTJSON(w, res.Tree)
	case "source":
		src, err := format.FormatTree(res.Tree, format.Options{})
		if err != nil {
			return err
		}
		_, err = w.Write(src)
		return err
	default:
		return diagfmt.FormatASTPretty(w, res.Tree, fs)
	}
}
