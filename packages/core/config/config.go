package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"gopkg.in/yaml.v3"
)

// DefaultAuthURL is the login endpoint used when auth.url is not configured.
const DefaultAuthURL = "/api/users/login"

// AuthConfig configures the login flow for credential identities.
type AuthConfig struct {
	URL string `yaml:"url,omitempty"`
}

// WaitFor polls a URL before any test runs until it answers with Status.
type WaitFor struct {
	URL      string `yaml:"url"`
	Status   int    `yaml:"status,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"`  // milliseconds
	Interval int    `yaml:"interval,omitempty"` // milliseconds
}

// Config is the global configuration shared read-only by every test.
type Config struct {
	// Request layer
	BaseURL string              `yaml:"baseUrl,omitempty"`
	Headers definition.Fields   `yaml:"headers,omitempty"`
	Auth    AuthConfig          `yaml:"auth,omitempty"`
	Expect  *definition.Expect  `yaml:"expect,omitempty"`
	Error   http.FailureHandler `yaml:"-"`

	// Client settings
	Target          string   `yaml:"target,omitempty"`
	Timeout         int      `yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects *bool    `yaml:"followRedirects,omitempty"`
	MaxRedirects    int      `yaml:"maxRedirects,omitempty"`
	ValidateSSL     *bool    `yaml:"validateSSL,omitempty"`
	Proxy           string   `yaml:"proxy,omitempty"`
	RateLimit       float64  `yaml:"rateLimit,omitempty"` // requests per second
	WaitFor         *WaitFor `yaml:"waitFor,omitempty"`

	// Template variables
	Variables map[string]any `yaml:"variables,omitempty"`
	EnvFiles  []string       `yaml:"envFiles,omitempty"`

	// Run settings
	Reporters []string `yaml:"reporters,omitempty"`
	OutputDir string   `yaml:"outputDir,omitempty"`
	Bail      *bool    `yaml:"bail,omitempty"`
	Verbose   *bool    `yaml:"verbose,omitempty"`
	NoColor   *bool    `yaml:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b, for the optional boolean settings.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// AuthURL returns the login endpoint, defaulting to DefaultAuthURL.
func (c *Config) AuthURL() string {
	if c == nil || c.Auth.URL == "" {
		return DefaultAuthURL
	}
	return c.Auth.URL
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ClientOptions translates the client settings into http client options.
func (c *Config) ClientOptions() []http.ClientOption {
	opts := []http.ClientOption{
		http.WithFollowRedirects(c.GetFollowRedirects()),
		http.WithValidateSSL(c.GetValidateSSL()),
	}
	if c.Timeout > 0 {
		opts = append(opts, http.WithTimeout(time.Duration(c.Timeout)*time.Millisecond))
	}
	if c.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(c.MaxRedirects))
	}
	if c.Proxy != "" {
		opts = append(opts, http.WithProxy(c.Proxy))
	}
	if c.Target != "" {
		opts = append(opts, http.WithTarget(c.Target))
	}
	if c.RateLimit > 0 {
		opts = append(opts, http.WithRateLimit(c.RateLimit))
	}
	return opts
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitsuite.yaml",
	"hitsuite.yaml",
	".hitsuite.config.json",
	"hitsuite.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. JSON files are
// read with the YAML decoder so header order is kept.
func loadConfigFromFile(path string) (*Config, error) {
	// #nosec G304 -- path is the user supplied config file
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return DefaultConfig().Merge(&file), nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Auth.URL != "" {
		result.Auth.URL = other.Auth.URL
	}
	if other.Expect != nil {
		result.Expect = other.Expect
	}
	if other.Error != nil {
		result.Error = other.Error
	}
	if other.Target != "" {
		result.Target = other.Target
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.RateLimit > 0 {
		result.RateLimit = other.RateLimit
	}
	if other.WaitFor != nil {
		result.WaitFor = other.WaitFor
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	result.Headers = definition.MergeFields(c.Headers, other.Headers)

	if len(other.Variables) > 0 {
		vars := make(map[string]any, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			vars[k] = v
		}
		for k, v := range other.Variables {
			vars[k] = v
		}
		result.Variables = vars
	}

	if len(other.EnvFiles) > 0 {
		result.EnvFiles = other.EnvFiles
	}
	if len(other.Reporters) > 0 {
		result.Reporters = other.Reporters
	}

	return &result
}
