package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/env"
	"gopkg.in/yaml.v3"
)

// FileExtensions lists the suite file extensions picked up from directories.
var FileExtensions = []string{".yaml", ".yml", ".json"}

// IsSuiteFile reports whether path has a suite file extension.
func IsSuiteFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range FileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadOption configures Parse and LoadFile.
type LoadOption func(*loadOptions)

type loadOptions struct {
	resolver *env.Resolver
}

// WithResolver binds template expressions in the loaded tree to r.
func WithResolver(r *env.Resolver) LoadOption {
	return func(o *loadOptions) {
		o.resolver = r
	}
}

// Parse decodes a YAML or JSON suite tree. The top level is either a mapping of
// named suites or a list of tests.
func Parse(data []byte, opts ...LoadOption) (*Tests, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var tests Tests
	if err := dec.Decode(&tests); err != nil {
		if errors.Is(err, io.EOF) {
			return Named(), nil
		}
		return nil, fmt.Errorf("failed to decode suite definition: %w", err)
	}

	if err := Bind(&tests, o.resolver); err != nil {
		return nil, err
	}
	return &tests, nil
}

// LoadFile reads and parses a suite file.
func LoadFile(path string, opts ...LoadOption) (*Tests, error) {
	// #nosec G304 -- path comes from the CLI arguments
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}
