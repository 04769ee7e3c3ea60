package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/compiler"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate suite files without sending requests",
	Long: `Load and compile suite files without executing them. Template
expressions are checked against the configured variables.

Examples:
  hitsuite validate users.yaml
  hitsuite validate ./suites/ --var token=abc`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	addSettingsFlags(validateCmd)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return usageError(err)
	}

	if len(files) == 0 {
		return usageError(fmt.Errorf("no suite files found"))
	}

	cfg, resolver, err := loadSettings()
	if err != nil {
		return err
	}

	hasErrors := false
	for _, file := range files {
		tree, err := definition.LoadFile(file, definition.WithResolver(resolver))
		if err == nil {
			_, err = compiler.Compile(cmd.Context(), tree, cfg)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
		}
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}
