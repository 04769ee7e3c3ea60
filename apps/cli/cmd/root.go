package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	verboseFlag   int // 0=warn, 1=-v info, 2=-vv debug
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hitsuite",
	Short: "Declarative API test suites.",
	Long: `hitsuite compiles declarative YAML or JSON suite files into HTTP
API tests. Suites nest, share configuration, log in on behalf of one or
more identities and assert on status, headers and bodies.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v, -vv for more detail)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("HITSUITE_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: HITSUITE_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", getEnvString("HITSUITE_LOG_FORMAT", "text"), "Log format: text, json (env: HITSUITE_LOG_FORMAT)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// setupLogging stores the process logger in the command context.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := "warn"
	switch {
	case logLevelFlag != "":
		level = logLevelFlag
	case verboseFlag >= 2:
		level = "debug"
	case verboseFlag == 1:
		level = "info"
	}

	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return usageError(err)
	}

	var json bool
	switch logFormatFlag {
	case "json":
		json = true
	case "text", "":
	default:
		return usageError(fmt.Errorf("unknown log format %q", logFormatFlag))
	}

	logger := logging.New(cmd.ErrOrStderr(), lvl, json)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}
