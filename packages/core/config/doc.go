// Package config handles the global hitsuite configuration.
//
// It provides functionality for:
//   - Loading .hitsuite.yaml or .hitsuite.config.json files
//   - Default configuration values
//   - Right-biased merging of file settings and command line overrides
//   - Building HTTP client options from the settings
package config
