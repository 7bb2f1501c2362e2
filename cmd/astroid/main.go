package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"astroid/internal/driver"
	"astroid/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "astroid",
	Short: "Structural analysis of Python sources",
	Long: `astroid parses Python modules into a syntax tree and answers structural
questions about it: block ranges, mutually exclusive statements, argument
binding and tuple unpacking.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupCommand,
	PersistentPostRunE: teardownCommand,
}

// cleanups накапливает действия, выполняемые после команды (трассировка).
var cleanups []func()

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(blockRangeCmd)
	rootCmd.AddCommand(exclusiveCmd)
	rootCmd.AddCommand(argsCmd)
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(getitemCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	flags.String("config", "", "path to astroid.toml (default: search upward from the working directory)")
	flags.String("trace", "", "write trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	// PostRun не вызывается при ошибке команды
	_ = teardownCommand(rootCmd, nil)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func setupCommand(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, cleanup)
	return nil
}

func teardownCommand(*cobra.Command, []string) error {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// cliEnv - настройки, общие для всех команд: флаги плюс astroid.toml.
type cliEnv struct {
	manifest       *projectManifest
	maxDiagnostics int
	jobs           int
	quiet          bool
	timings        bool
	colorStderr    bool
	// suggest показывает предложенные исправления
	suggest bool
}

func readEnv(cmd *cobra.Command) (*cliEnv, error) {
	flags := cmd.Root().PersistentFlags()
	env := &cliEnv{}
	var err error
	if env.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if env.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if env.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if env.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	env.colorStderr = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		cfg, err := loadProjectConfig(configPath)
		if err != nil {
			return nil, err
		}
		env.manifest = &projectManifest{Path: configPath, Root: filepath.Dir(configPath), Config: cfg}
	} else if env.manifest, err = loadProjectManifest("."); err != nil {
		return nil, err
	}

	if env.jobs == 0 && env.manifest != nil {
		env.jobs = env.manifest.Config.Analysis.Jobs
	}
	if !env.quiet {
		for _, p := range env.manifest.missingSearchPaths() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: search path does not exist: %s\n", env.manifest.Path, p)
		}
	}
	return env, nil
}

// driverOptions собирает driver.Options; withCache включает дисковый кэш,
// если он разрешён в astroid.toml.
func (env *cliEnv) driverOptions(withCache bool) (driver.Options, error) {
	opts := driver.Options{
		MaxDiagnostics: env.maxDiagnostics,
		Jobs:           env.jobs,
		Timings:        env.timings,
	}
	if env.manifest == nil {
		return opts, nil
	}
	opts.SearchPaths = env.manifest.Config.Analysis.SearchPaths
	if withCache && env.manifest.Config.Cache.Enabled {
		var (
			cache *driver.DiskCache
			err   error
		)
		if dir := env.manifest.Config.Cache.Dir; dir != "" {
			cache, err = driver.OpenDiskCacheAt(dir)
		} else {
			cache, err = driver.OpenDiskCache("astroid")
		}
		if err != nil {
			return opts, fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

// exceptions returns the flag value when given, otherwise the configured list.
// An empty list is reported as nil: flow.AreExclusive treats only nil as
// "no exception filter".
func (env *cliEnv) exceptions(flagValue []string) []string {
	if len(flagValue) > 0 {
		return flagValue
	}
	if env.manifest != nil && len(env.manifest.Config.Analysis.Exceptions) > 0 {
		return env.manifest.Config.Analysis.Exceptions
	}
	return nil
}
