// Package compiler expands a suite definition tree into executable nodes and
// registers them with a test harness.
//
// It provides functionality for:
//   - Recursive compilation of named suites and test lists
//   - Suite and Test nodes with skip/only modes and lifecycle hooks
//   - The Harness interface implemented by the runner and the go test adapter
package compiler
