package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/assertions"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Reporter names accepted by New.
const (
	ReporterConsole = "console"
	ReporterJSON    = "json"
	ReporterJUnit   = "junit"
	ReporterTAP     = "tap"
)

// Options configure formatters created by New.
type Options struct {
	Verbose bool
	NoColor bool
}

// New returns the formatter registered under name, writing to w.
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	switch name {
	case ReporterConsole, "":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(opts.Verbose), WithNoColor(opts.NoColor)), nil
	case ReporterJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case ReporterJUnit:
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case ReporterTAP:
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown reporter %q", name)
	}
}

// assertionFailure extracts the failed assertion behind err, if any.
func assertionFailure(err error) *assertions.Result {
	var failure *assertions.Failure
	if errors.As(err, &failure) {
		return failure.Result
	}
	return nil
}

// describeFailure renders a failed assertion on one line.
func describeFailure(r *assertions.Result) string {
	msg := fmt.Sprintf("%s %s: expected %v, got %v", r.Subject, r.Operator,
		formatValue(r.Expected, 100), formatValue(r.Actual, 100))
	if r.Message != "" {
		msg += ". " + r.Message
	}
	return msg
}

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	case map[string]string:
		return fmt.Sprintf("{map with %d entries}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}
