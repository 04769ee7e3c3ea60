// Package output renders run results for the CLI.
//
// It provides functionality for:
//   - Console output with colors and suite headings
//   - JSON documents including run ids and latency percentiles
//   - JUnit XML with one testsuite per top-level suite
//   - TAP version 13 with YAML diagnostics
//
// Formatters that accumulate results implement Flushable.
package output
