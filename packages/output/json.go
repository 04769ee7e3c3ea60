package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Runs     []JSONRun   `json:"runs"`
	Tests    []JSONTest  `json:"tests"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONRun describes one suite file run
type JSONRun struct {
	ID       string      `json:"id"`
	File     string      `json:"file"`
	Duration float64     `json:"duration"`
	Latency  JSONLatency `json:"latency"`
}

// JSONLatency holds request latency percentiles in milliseconds
type JSONLatency struct {
	Requests int64   `json:"requests"`
	Errors   int64   `json:"errors"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	P50      float64 `json:"p50"`
	P95      float64 `json:"p95"`
	P99      float64 `json:"p99"`
}

// JSONTest represents a single test result
type JSONTest struct {
	Name       string         `json:"name"`
	Path       []string       `json:"path,omitempty"`
	File       string         `json:"file"`
	RunID      string         `json:"runId"`
	Passed     bool           `json:"passed"`
	Skipped    bool           `json:"skipped,omitempty"`
	SkipReason string         `json:"skipReason,omitempty"`
	Duration   float64        `json:"duration"`
	Error      string         `json:"error,omitempty"`
	Assertion  *JSONAssertion `json:"assertion,omitempty"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Message  string `json:"message,omitempty"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runs    []JSONRun
	results []JSONTest
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		runs:    make([]JSONRun, 0),
		results: make([]JSONTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	l := result.Latency
	f.runs = append(f.runs, JSONRun{
		ID:       result.ID,
		File:     result.File,
		Duration: ms(result.Duration),
		Latency: JSONLatency{
			Requests: l.Requests,
			Errors:   l.Errors,
			Min:      ms(l.Min),
			Max:      ms(l.Max),
			Mean:     ms(l.Mean),
			P50:      ms(l.P50),
			P95:      ms(l.P95),
			P99:      ms(l.P99),
		},
	})

	for _, r := range result.Results {
		test := JSONTest{
			Name:       r.Name,
			Path:       r.Path,
			File:       result.File,
			RunID:      result.ID,
			Passed:     r.Passed,
			Skipped:    r.Skipped,
			SkipReason: r.SkipReason,
			Duration:   ms(r.Duration),
		}

		if r.Error != nil {
			test.Error = r.Error.Error()
		}

		if a := assertionFailure(r.Error); a != nil {
			test.Assertion = &JSONAssertion{
				Subject:  a.Subject,
				Operator: a.Operator,
				Expected: jsonValue(a.Expected),
				Actual:   jsonValue(a.Actual),
				Message:  a.Message,
			}
		}

		f.results = append(f.results, test)
	}
}

// jsonValue keeps plain data as is and renders anything else, such as a
// compiled pattern, as text.
func jsonValue(v any) any {
	switch v.(type) {
	case nil, bool, string, float64, int, int64, []any, map[string]any:
		return v
	}
	return fmt.Sprintf("%v", v)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, skipped int
	for _, t := range f.results {
		if t.Skipped {
			skipped++
		} else if t.Passed {
			passed++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Summary: JSONSummary{
			Total:   len(f.results),
			Passed:  passed,
			Failed:  failed,
			Skipped: skipped,
		},
		Runs:     f.runs,
		Tests:    f.results,
		Duration: ms(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
