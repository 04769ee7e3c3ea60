package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/assertions"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.RunResult {
	failure := &assertions.Failure{Result: &assertions.Result{
		Subject:  "status",
		Operator: assertions.OpEquals,
		Expected: 200,
		Actual:   404,
	}}
	return &runner.RunResult{
		ID:   "0d7a2c56-8a0e-4d59-9b4c-6a5f3b1a9e21",
		File: "users.yaml",
		Results: []*runner.TestResult{
			{Name: "list", Path: []string{"Users"}, Passed: true, Duration: 12 * time.Millisecond},
			{Name: "get", Path: []string{"Users"}, Error: fmt.Errorf("identity 0: %w", failure)},
			{Name: "delete", Path: []string{"Users"}, Error: errors.New("connection refused")},
			{Name: "skipped", Path: []string{"Users", "Admin"}, Skipped: true, SkipReason: runner.SkipReasonSkipped},
		},
		Duration: 40 * time.Millisecond,
		Passed:   1,
		Failed:   2,
		Skipped:  1,
		Latency: runner.LatencyStats{
			Requests: 3,
			Errors:   1,
			P50:      10 * time.Millisecond,
			P99:      20 * time.Millisecond,
		},
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{ReporterConsole, ReporterJSON, ReporterJUnit, ReporterTAP} {
		f, err := New(name, &buf, Options{})
		require.NoError(t, err, name)
		assert.NotNil(t, f, name)
	}

	_, err := New("html", &buf, Options{})
	assert.Error(t, err)
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
	f.FormatResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "Running: users.yaml")
	assert.Contains(t, out, "  Users\n")
	assert.Contains(t, out, "    ✓ list (12ms)")
	assert.Contains(t, out, "    ✗ get")
	assert.Contains(t, out, "Expected: 200")
	assert.Contains(t, out, "Actual:   404")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "      - skipped")
	assert.Contains(t, out, "1 passed, 2 failed, 1 skipped, 4 total")
	assert.Contains(t, out, "p50=10ms")
	assert.Contains(t, out, "0d7a2c56-8a0e-4d59-9b4c-6a5f3b1a9e21")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, JSONSummary{Total: 4, Passed: 1, Failed: 2, Skipped: 1}, out.Summary)
	require.Len(t, out.Runs, 1)
	assert.Equal(t, int64(3), out.Runs[0].Latency.Requests)
	assert.Equal(t, 20.0, out.Runs[0].Latency.P99)
	require.Len(t, out.Tests, 4)
	assert.Equal(t, []string{"Users"}, out.Tests[1].Path)
	require.NotNil(t, out.Tests[1].Assertion)
	assert.Equal(t, "status", out.Tests[1].Assertion.Subject)
	assert.Nil(t, out.Tests[2].Assertion)
	assert.Equal(t, "connection refused", out.Tests[2].Error)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))
	assert.Equal(t, "hitsuite", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)

	require.Len(t, suites.TestSuites, 1)
	assert.Equal(t, "Users", suites.TestSuites[0].Name)
	cases := suites.TestSuites[0].TestCases
	assert.Equal(t, "users.yaml.Users", cases[0].ClassName)
	assert.Equal(t, "users.yaml.Users.Admin", cases[3].ClassName)
	require.NotNil(t, cases[1].Failure)
	assert.Contains(t, cases[1].Failure.Content, "expected 200, got 404")
	require.NotNil(t, cases[2].Error)
	assert.NotNil(t, cases[3].Skipped)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, "TAP version 13\n1..4\n")
	assert.Contains(t, out, "ok 1 - Users > list\n")
	assert.Contains(t, out, "not ok 2 - Users > get\n")
	assert.Contains(t, out, "not ok 3 - Users > delete\n")
	assert.Contains(t, out, "ok 4 - Users > Admin > skipped # SKIP skipped\n")
	assert.Contains(t, out, "  subject: status\n")
	assert.Contains(t, out, "  severity: error\n")
	assert.Contains(t, out, "  message: connection refused\n")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 10))
	assert.Equal(t, "{object with 1 keys}", formatValue(map[string]any{"a": 1}, 10))
	assert.Equal(t, "abc...", formatValue("abcdef", 3))
}
