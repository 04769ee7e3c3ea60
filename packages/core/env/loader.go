package env

import (
	"os"
	"strings"
)

// VariablePrefix marks process environment variables exposed as template
// variables: HITSUITE_VAR_token becomes {{token}}.
const VariablePrefix = "HITSUITE_VAR_"

// MergeVariables merges sources left to right; later sources win.
func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the environment variables starting with prefix, keyed
// by the remainder of their name.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}

// ParseAssignments converts name=value pairs, as given on the command line,
// into variables.
func ParseAssignments(pairs []string) map[string]any {
	result := make(map[string]any)
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		result[strings.TrimSpace(key)] = value
	}
	return result
}
