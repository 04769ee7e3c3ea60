package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
	"gopkg.in/yaml.v3"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) version
// 13. Failures carry a YAML diagnostic block.
type TAPFormatter struct {
	writer io.Writer
	lines  []tapLine
}

type tapLine struct {
	comment    string
	name       string
	passed     bool
	skipped    bool
	skipReason string
	diag       *tapDiagnostic
}

// tapDiagnostic is rendered as the YAML block below a failing test point.
type tapDiagnostic struct {
	Message    string `yaml:"message"`
	Severity   string `yaml:"severity"`
	Subject    string `yaml:"subject,omitempty"`
	Operator   string `yaml:"operator,omitempty"`
	Expected   string `yaml:"expected,omitempty"`
	Actual     string `yaml:"actual,omitempty"`
	File       string `yaml:"file,omitempty"`
	RunID      string `yaml:"run,omitempty"`
	DurationMs int64  `yaml:"duration_ms"`
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		line := tapLine{
			name:       r.FullName(),
			passed:     r.Passed,
			skipped:    r.Skipped,
			skipReason: r.SkipReason,
		}

		if !r.Passed && !r.Skipped {
			diag := &tapDiagnostic{
				Severity:   "fail",
				File:       result.File,
				RunID:      result.ID,
				DurationMs: r.Duration.Milliseconds(),
			}
			if a := assertionFailure(r.Error); a != nil {
				diag.Message = "assertion failed"
				diag.Subject = a.Subject
				diag.Operator = a.Operator
				diag.Expected = formatValue(a.Expected, 200)
				diag.Actual = formatValue(a.Actual, 200)
				if a.Message != "" {
					diag.Message = a.Message
				}
			} else {
				diag.Severity = "error"
				diag.Message = fmt.Sprint(r.Error)
			}
			line.diag = diag
		}

		f.lines = append(f.lines, line)
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Load errors are written as comments.
	f.lines = append(f.lines, tapLine{comment: err.Error()})
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	var b strings.Builder
	b.WriteString("TAP version 13\n")

	count := 0
	for _, l := range f.lines {
		if l.comment == "" {
			count++
		}
	}
	fmt.Fprintf(&b, "1..%d\n", count)

	n := 0
	for _, l := range f.lines {
		if l.comment != "" {
			b.WriteString("# " + l.comment + "\n")
			continue
		}
		n++

		switch {
		case l.skipped:
			reason := l.skipReason
			if reason == "" {
				reason = runner.SkipReasonSkipped
			}
			fmt.Fprintf(&b, "ok %d - %s # SKIP %s\n", n, l.name, reason)
		case l.passed:
			fmt.Fprintf(&b, "ok %d - %s\n", n, l.name)
		default:
			fmt.Fprintf(&b, "not ok %d - %s\n", n, l.name)
			if l.diag != nil {
				data, err := yaml.Marshal(l.diag)
				if err != nil {
					return fmt.Errorf("encoding diagnostics: %w", err)
				}
				b.WriteString("  ---\n")
				for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
					b.WriteString("  " + line + "\n")
				}
				b.WriteString("  ...\n")
			}
		}
	}
	fmt.Fprintf(&b, "# time %dms\n", totalDuration.Milliseconds())

	_, err := io.WriteString(f.writer, b.String())
	return err
}
