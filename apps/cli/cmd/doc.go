// Package cmd implements the hitsuite CLI commands using Cobra.
//
// Available commands:
//   - run: Execute suite files against a target
//   - validate: Load and compile suite files without sending requests
//   - list: Display the suites and tests defined in files
//   - init: Create a new project with an example suite
//   - version: Show version information
//
// The CLI supports flags for filtering, reporters, template variables
// and a watch mode for development workflows.
package cmd
