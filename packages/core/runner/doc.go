// Package runner is the built-in harness that executes compiled suites.
//
// It provides functionality for:
//   - Collecting suites, tests and hooks as they are registered
//   - Exclusive (only), skipped and name-filtered tests
//   - Lifecycle hooks: before and after once per suite, beforeEach from the
//     outermost suite in, afterEach from the innermost suite out
//   - Stopping at the first failure (bail)
//   - Per-request latency percentiles and a unique id per run
//   - Waiting for the target service before the first test
//
// Suite bodies run while the tree is registered; tests run afterwards, one at a
// time, in declaration order.
package runner
