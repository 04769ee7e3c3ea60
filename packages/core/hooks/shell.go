package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/env"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// Result represents the result of a shell command execution
type Result struct {
	Command string
	Output  string
	Passed  bool
	Error   error
}

// Exec runs a single command in dir. The returned error is non-nil only when
// the command failed and was not prefixed with "-".
func Exec(ctx context.Context, command, dir string, resolver *env.Resolver) (*Result, error) {
	result := &Result{
		Command: command,
		Passed:  true,
	}

	cmdStr := strings.TrimSpace(command)
	if resolver != nil && env.HasTemplate(cmdStr) {
		resolved, err := resolver.Resolve(cmdStr)
		if err != nil {
			result.Passed = false
			result.Error = err
			return result, err
		}
		cmdStr = resolved
	}

	if cmdStr == "" {
		return result, nil
	}

	// Check if command should ignore errors (prefixed with "-")
	ignoreError := strings.HasPrefix(cmdStr, "-")
	if ignoreError {
		cmdStr = strings.TrimSpace(strings.TrimPrefix(cmdStr, "-"))
	}

	cmdStr = resolveExecutable(cmdStr, dir)

	// #nosec G204 -- commands come from the suite file being run
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	result.Output = string(output)

	log := logging.FromContext(ctx).WithComponent("hooks")
	if len(output) > 0 {
		log.Debug("hook output", "command", command, "output", strings.TrimSpace(result.Output))
	}

	if err != nil {
		result.Passed = ignoreError
		if !ignoreError {
			result.Error = fmt.Errorf("command %q failed: %v\nOutput: %s", command, err, output)
			return result, result.Error
		}
		log.Debug("ignoring failed hook", "command", command, "error", err)
	}

	return result, nil
}

// resolveExecutable makes a relative script path, or a bare file name that
// exists in dir but not on PATH, relative to dir.
func resolveExecutable(cmdStr, dir string) string {
	if dir == "" {
		return cmdStr
	}
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return cmdStr
	}

	executable := parts[0]
	switch {
	case strings.HasPrefix(executable, "./") || strings.HasPrefix(executable, "../"):
		parts[0] = filepath.Join(dir, executable)
	case !filepath.IsAbs(executable) && !isInPath(executable):
		potentialPath := filepath.Join(dir, executable)
		if _, err := os.Stat(potentialPath); err != nil {
			return cmdStr
		}
		parts[0] = potentialPath
	default:
		return cmdStr
	}
	return strings.Join(parts, " ")
}

// isInPath checks if a command is available in the system PATH
func isInPath(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// Command returns a hook running command in dir.
func Command(command, dir string, resolver *env.Resolver) definition.Hook {
	return func(ctx context.Context) error {
		_, err := Exec(ctx, command, dir, resolver)
		return err
	}
}

// Bind appends the declared commands of every suite in tree to its hooks.
func Bind(tree *definition.Tests, dir string, resolver *env.Resolver) {
	for _, entry := range tree.Entries() {
		s := entry.Suite
		if s == nil {
			continue
		}
		s.Before = append(s.Before, commands(s.Commands.Before, dir, resolver)...)
		s.BeforeEach = append(s.BeforeEach, commands(s.Commands.BeforeEach, dir, resolver)...)
		s.After = append(s.After, commands(s.Commands.After, dir, resolver)...)
		s.AfterEach = append(s.AfterEach, commands(s.Commands.AfterEach, dir, resolver)...)
		s.Commands = definition.Commands{}
		Bind(s.Tests, dir, resolver)
	}
}

func commands(list definition.CommandList, dir string, resolver *env.Resolver) definition.Hooks {
	hooks := make(definition.Hooks, 0, len(list))
	for _, c := range list {
		hooks = append(hooks, Command(c, dir, resolver))
	}
	return hooks
}
