package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/env"
	"github.com/spf13/cobra"
)

var (
	configFlag   string
	targetFlag   string
	baseURLFlag  string
	varFlags     []string
	envFileFlags []string
)

// addSettingsFlags registers the flags that shape configuration and template
// variables on cmd.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFlag, "config", "c", getEnvString("HITSUITE_CONFIG", ""), "Path to config file (env: HITSUITE_CONFIG)")
	cmd.Flags().StringVar(&targetFlag, "target", getEnvString("HITSUITE_TARGET", ""), "Origin that relative URLs are resolved against (env: HITSUITE_TARGET)")
	cmd.Flags().StringVar(&baseURLFlag, "base-url", getEnvString("HITSUITE_BASE_URL", ""), "Prefix for every test URL (env: HITSUITE_BASE_URL)")
	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Template variable as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&envFileFlags, "env-file", nil, "Additional .env file for template variables (repeatable)")
}

// loadSettings loads the configuration file, applies flag overrides and
// builds the template resolver. Variables are layered, later sources
// winning: config variables, .env files, HITSUITE_VAR_* environment
// variables, --var flags.
func loadSettings() (*config.Config, *env.Resolver, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, nil, withExitCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}

	overrides := &config.Config{Target: targetFlag, BaseURL: baseURLFlag}
	cfg = cfg.Merge(overrides)

	dotenv, err := env.LoadDotEnvVariables(append(cfg.EnvFiles, envFileFlags...)...)
	if err != nil {
		return nil, nil, withExitCode(ExitConfigError, err)
	}

	resolver := env.NewResolver()
	resolver.SetVariables(env.MergeVariables(
		cfg.Variables,
		dotenv,
		env.LoadSystemEnv(env.VariablePrefix),
		env.ParseAssignments(varFlags),
	))
	return cfg, resolver, nil
}

// collectFiles expands directories into the suite files they contain.
// Explicit file arguments are kept regardless of extension.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && definition.IsSuiteFile(path) && !isConfigFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range config.ConfigFilenames {
		if base == name {
			return true
		}
	}
	return false
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
