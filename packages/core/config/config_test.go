package config

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultAuthURL, cfg.AuthURL())
	assert.Equal(t, 30000, cfg.Timeout)
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetBail())
	assert.Nil(t, cfg.Headers)
	assert.True(t, cfg.IsDefault())
}

func TestAuthURL_NilAndEmpty(t *testing.T) {
	var cfg *Config
	assert.Equal(t, "/api/users/login", cfg.AuthURL())
	assert.Equal(t, "/api/users/login", (&Config{}).AuthURL())
	assert.Equal(t, "/login", (&Config{Auth: AuthConfig{URL: "/login"}}).AuthURL())
}

func TestFindAndLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	data := `
baseUrl: /api/v1
headers:
  X-Client: hitsuite
  Accept: application/json
auth:
  url: /session
expect:
  headers:
    Content-Type: /json/
timeout: 5000
followRedirects: false
rateLimit: 10
variables:
  tenant: acme
waitFor:
  url: /health
  timeout: 2000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitsuite.yaml"), []byte(data), 0o600))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.BaseURL)
	assert.Equal(t, []string{"X-Client", "Accept"}, cfg.Headers.Keys())
	assert.Equal(t, "/session", cfg.AuthURL())
	require.True(t, cfg.Expect.Structured())
	ct, _ := cfg.Expect.Headers.Get("Content-Type")
	assert.IsType(t, &regexp.Regexp{}, ct)
	assert.Equal(t, 5000, cfg.Timeout)
	assert.False(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, "acme", cfg.Variables["tenant"])
	assert.Equal(t, 10, cfg.MaxRedirects)
	require.NotNil(t, cfg.WaitFor)
	assert.Equal(t, "/health", cfg.WaitFor.URL)
	assert.Equal(t, 2000, cfg.WaitFor.Timeout)
}

func TestFindAndLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	data := `{"baseUrl": "http://localhost:3000", "headers": {"B": "2", "A": "1"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hitsuite.config.json"), []byte(data), 0o600))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, []string{"B", "A"}, cfg.Headers.Keys())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("headers: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.BaseURL = "/v1"
	base.Headers = definition.NewFields("A", "1", "B", "2")
	base.Variables = map[string]any{"x": 1}

	handler := func(http.Failure) {}
	override := &Config{
		Headers:   definition.NewFields("B", "3"),
		Error:     handler,
		Bail:      BoolPtr(true),
		Timeout:   1000,
		Variables: map[string]any{"y": 2},
	}

	merged := base.Merge(override)

	assert.Equal(t, "/v1", merged.BaseURL)
	assert.Equal(t, definition.NewFields("A", "1", "B", "3"), merged.Headers)
	assert.NotNil(t, merged.Error)
	assert.True(t, merged.GetBail())
	assert.Equal(t, 1000, merged.Timeout)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, merged.Variables)

	// the receiver is untouched
	assert.Equal(t, definition.NewFields("A", "1", "B", "2"), base.Headers)
	assert.False(t, base.GetBail())

	assert.Same(t, base, base.Merge(nil))
}

func TestClientOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "http://localhost:8080"
	cfg.RateLimit = 5

	client := http.NewClient(cfg.ClientOptions()...)
	assert.Equal(t, "http://localhost:8080", client.Target())
	assert.Len(t, cfg.ClientOptions(), 6)
}
