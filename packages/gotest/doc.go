// Package gotest runs compiled suite trees as Go subtests.
//
// It provides functionality for:
//   - Registering suites and tests with t.Run
//   - Honouring skip and exclusive (only) modes
//   - Running suite lifecycle hooks around subtests
package gotest
