package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hitsuite project",
	Long: `Initialize a new hitsuite project in the current directory.

This creates:
  - .hitsuite.yaml   - Configuration file
  - example.yaml     - Example suite file

Examples:
  hitsuite init
  hitsuite init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSuite = `# Suites are keyed by name and nest through "tests".
Health:
  tests:
    - name: responds
      url: /health
      expect: 200

Users:
  before: "-echo seeding users"
  tests:
    - name: list users
      url: /users
      headers:
        Accept: application/json
      expect:
        headers:
          status: 200
          Content-Type: /json/

    - name: create a user
      verb: POST
      url: /users
      body:
        name: "{{randomString(8)}}"
        email: "{{randomEmail()}}"
      expect: 201

    - name: admins see everything
      url: /admin/users
      auth:
        - "{{adminToken}}"
        - email: admin@example.com
          password: "{{adminPassword}}"
      expect: 200
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".hitsuite.yaml")
	exampleFile := filepath.Join(cwd, "example.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	cfg := &config.Config{
		Target:  "http://localhost:3000",
		BaseURL: "/api",
		Auth:    config.AuthConfig{URL: config.DefaultAuthURL},
		Timeout: 30000,
		WaitFor: &config.WaitFor{URL: "/health", Timeout: 30000},
		Variables: map[string]any{
			"adminToken":    "change-me",
			"adminPassword": "change-me",
		},
		Reporters: []string{"console"},
	}

	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleSuite), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitsuite project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitsuite run example.yaml' to execute the example suite.\n")

	return nil
}
