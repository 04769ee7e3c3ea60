package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
	"github.com/abdul-hamid-achik/hitsuite/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>...",
	Short: "Run suite files",
	Long: `Run the suites defined in YAML or JSON files.

Examples:
  hitsuite run users.yaml
  hitsuite run ./suites/ --target http://localhost:3000
  hitsuite run ./suites/ --name "Users > *" --bail
  hitsuite run users.yaml --var token=abc --reporter console,junit --output-dir reports
  hitsuite run ./suites/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	nameFlag      string
	bailFlag      bool
	noColorFlag   bool
	reporterFlags []string
	outputDirFlag string
	rateFlag      float64
	watchFlag     bool
)

func init() {
	addSettingsFlags(runCmd)

	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only tests whose name or suite path matches the pattern")
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("HITSUITE_BAIL", false), "Stop on first failure (env: HITSUITE_BAIL)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HITSUITE_NO_COLOR", false), "Disable colored output (env: HITSUITE_NO_COLOR)")
	runCmd.Flags().StringSliceVarP(&reporterFlags, "reporter", "r", nil, "Reporters: console, json, junit, tap (default from config)")
	runCmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", getEnvString("HITSUITE_OUTPUT_DIR", ""), "Directory for file reporters (default: stdout) (env: HITSUITE_OUTPUT_DIR)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second (0 = unlimited)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run suites")
}

// reportFiles names the files written by reporters when an output
// directory is configured.
var reportFiles = map[string]string{
	output.ReporterJSON:  "results.json",
	output.ReporterJUnit: "junit.xml",
	output.ReporterTAP:   "results.tap",
}

// reporters holds the formatters of one run and the files they write to.
type reporters struct {
	formatters []output.Formatter
	closers    []io.Closer
}

func newReporters(cmd *cobra.Command, cfg *config.Config) (*reporters, error) {
	names := reporterFlags
	if len(names) == 0 {
		names = cfg.Reporters
	}
	if len(names) == 0 {
		names = []string{output.ReporterConsole}
	}
	dir := cfg.OutputDir
	if outputDirFlag != "" {
		dir = outputDirFlag
	}

	opts := output.Options{
		Verbose: verboseFlag > 0 || cfg.GetVerbose(),
		NoColor: noColorFlag || cfg.GetNoColor(),
	}

	r := &reporters{}
	for _, name := range names {
		var w io.Writer = cmd.OutOrStdout()
		if file, ok := reportFiles[name]; ok && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				r.Close()
				return nil, fmt.Errorf("cannot create output directory: %w", err)
			}
			f, err := os.Create(filepath.Join(dir, file))
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("cannot create output file: %w", err)
			}
			r.closers = append(r.closers, f)
			w = f
		}

		formatter, err := output.New(name, w, opts)
		if err != nil {
			r.Close()
			return nil, usageError(err)
		}
		r.formatters = append(r.formatters, formatter)
	}
	return r, nil
}

func (r *reporters) FormatHeader(version string) {
	for _, f := range r.formatters {
		f.FormatHeader(version)
	}
}

func (r *reporters) FormatResult(result *runner.RunResult) {
	for _, f := range r.formatters {
		f.FormatResult(result)
	}
}

func (r *reporters) FormatError(err error) {
	for _, f := range r.formatters {
		f.FormatError(err)
	}
}

func (r *reporters) Flush(total time.Duration) error {
	for _, f := range r.formatters {
		if flushable, ok := f.(output.Flushable); ok {
			if err := flushable.Flush(total); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
	}
	return nil
}

func (r *reporters) Close() {
	for _, c := range r.closers {
		_ = c.Close()
	}
}

// runSummary aggregates the results of every file of one pass.
type runSummary struct {
	passed, failed, skipped int
	duration                time.Duration
	err                     error
}

func runCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	log := logging.FromContext(ctx).WithComponent("cli")

	files, err := collectFiles(args)
	if err != nil {
		return usageError(err)
	}
	if len(files) == 0 {
		return usageError(fmt.Errorf("no suite files found"))
	}

	runOnce := func() (*runSummary, error) {
		cfg, resolver, err := loadSettings()
		if err != nil {
			return nil, err
		}
		if rateFlag > 0 {
			cfg.RateLimit = rateFlag
		}

		reps, err := newReporters(cmd, cfg)
		if err != nil {
			return nil, err
		}
		defer reps.Close()
		reps.FormatHeader(version)

		r := runner.NewRunner(&runner.Config{
			Global:     cfg,
			Resolver:   resolver,
			Bail:       bailFlag || cfg.GetBail(),
			NameFilter: nameFlag,
		})

		summary := runFiles(ctx, r, reps, files, bailFlag || cfg.GetBail())
		log.Debug("run complete", "files", len(files), "passed", summary.passed, "failed", summary.failed)
		if err := reps.Flush(summary.duration); err != nil {
			return nil, err
		}
		return summary, nil
	}

	summary, err := runOnce()
	if err != nil {
		return err
	}

	if !watchFlag {
		if summary.err != nil {
			return summary.err
		}
		if summary.failed > 0 {
			return withExitCode(ExitTestFailure, fmt.Errorf("%d test(s) failed", summary.failed))
		}
		return nil
	}

	return watch(ctx, cmd, args, files, func() {
		if _, err := runOnce(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	})
}

// runFiles runs each file in order. A file that cannot be loaded or compiled
// is reported and skipped; the first such error is kept in the summary.
func runFiles(ctx context.Context, r *runner.Runner, reps *reporters, files []string, bail bool) *runSummary {
	summary := &runSummary{}
	start := time.Now()

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		result, err := r.RunFile(ctx, file)
		if err != nil {
			reps.FormatError(err)
			if summary.err == nil {
				summary.err = classify(err)
			}
			if bail {
				break
			}
			continue
		}

		reps.FormatResult(result)
		summary.passed += result.Passed
		summary.failed += result.Failed
		summary.skipped += result.Skipped

		if bail && result.Failed > 0 {
			break
		}
	}

	summary.duration = time.Since(start)
	return summary
}

// classify maps a RunFile error to its exit code.
func classify(err error) error {
	switch {
	case errors.Is(err, runner.ErrServiceNotReady):
		return withExitCode(ExitNetworkError, err)
	default:
		return withExitCode(ExitParseError, err)
	}
}

// watch re-runs the suites whenever one of the watched files changes, until
// ctx is cancelled.
func watch(ctx context.Context, cmd *cobra.Command, args, files []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Add files and directories to watch
	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Also watch the original args if they're directories
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isWatched(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running suites...\n\n", name)
				rerun()
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

// isWatched reports whether a change to path should trigger a re-run: suite
// files, config files and .env files.
func isWatched(path string) bool {
	base := filepath.Base(path)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return true
	}
	return definition.IsSuiteFile(path) || isConfigFile(path)
}
