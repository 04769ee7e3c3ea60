package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Auth:            AuthConfig{URL: DefaultAuthURL},
		Timeout:         30000, // 30 seconds
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    10,
		ValidateSSL:     BoolPtr(true),
		EnvFiles:        []string{".env", ".env.local"},
		Reporters:       []string{"console"},
		Bail:            BoolPtr(false),
		Verbose:         BoolPtr(false),
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.BaseURL == "" &&
		c.Headers == nil &&
		c.AuthURL() == defaults.Auth.URL &&
		c.Expect == nil &&
		c.Error == nil &&
		c.Target == "" &&
		c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() &&
		c.Proxy == "" &&
		c.RateLimit == 0 &&
		len(c.Variables) == 0 &&
		!c.GetBail() &&
		!c.GetVerbose() &&
		!c.GetNoColor()
}
