package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Running: "+result.File))

	var printed []string
	for _, r := range result.Results {
		// Print suite headings as the path changes.
		common := 0
		for common < len(printed) && common < len(r.Path) && printed[common] == r.Path[common] {
			common++
		}
		for i := common; i < len(r.Path); i++ {
			fmt.Fprintf(f.writer, "\n%s%s\n", indent(i+1), bold(r.Path[i]))
		}
		printed = r.Path
		pad := indent(len(r.Path) + 1)

		if r.Skipped {
			if r.SkipReason == runner.SkipReasonFiltered && !f.verbose {
				continue
			}
			fmt.Fprintf(f.writer, "%s%s %s", pad, yellow("-"), r.Name)
			if r.SkipReason != "" && r.SkipReason != runner.SkipReasonSkipped {
				fmt.Fprintf(f.writer, " (%s)", r.SkipReason)
			}
			fmt.Fprintf(f.writer, "\n")
			continue
		}

		if r.Passed {
			fmt.Fprintf(f.writer, "%s%s %s %s\n", pad, green("✓"), r.Name, cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))
			continue
		}

		fmt.Fprintf(f.writer, "%s%s %s\n", pad, red("✗"), r.Name)
		if a := assertionFailure(r.Error); a != nil {
			fmt.Fprintf(f.writer, "%s  %s %s %s\n", pad, red("→"), a.Subject, a.Operator)
			fmt.Fprintf(f.writer, "%s    Expected: %s\n", pad, formatValue(a.Expected, 100))
			fmt.Fprintf(f.writer, "%s    Actual:   %s\n", pad, formatValue(a.Actual, 100))
			if a.Message != "" {
				fmt.Fprintf(f.writer, "%s    %s\n", pad, a.Message)
			}
		} else if r.Error != nil {
			fmt.Fprintf(f.writer, "%s  %s\n", pad, red(r.Error.Error()))
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	total := result.Passed + result.Failed + result.Skipped
	fmt.Fprintf(f.writer, "%d total\n", total)
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())

	if f.verbose && result.Latency.Requests > 0 {
		l := result.Latency
		fmt.Fprintf(f.writer, "Latency: p50=%dms p95=%dms p99=%dms max=%dms (%d requests, %d errors)\n",
			l.P50.Milliseconds(), l.P95.Milliseconds(), l.P99.Milliseconds(), l.Max.Milliseconds(),
			l.Requests, l.Errors)
		fmt.Fprintf(f.writer, "Run:   %s\n", result.ID)
	}
	fmt.Fprintf(f.writer, "\n")
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitsuite"), version)
}
