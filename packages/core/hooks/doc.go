// Package hooks runs the shell commands declared as suite hooks.
//
// Commands run through sh -c in the suite file's directory. A command
// prefixed with "-" may fail without failing the hook. Relative script paths
// (./seed.sh) are resolved against the suite directory, and {{...}} template
// expressions are resolved before the command runs.
package hooks
