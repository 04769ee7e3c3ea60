package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadDotEnv parses a .env file. Lines have the form KEY=value, optionally
// prefixed with "export". Single quoted values are taken literally; in double
// quoted and bare values ${NAME} expands to a key defined earlier in the file,
// or else to the process environment, and double quoted values also unescape
// \n and \". Lines starting with # are ignored.
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	result := make(map[string]string)
	lookup := func(name string) string {
		if v, ok := result[name]; ok {
			return v
		}
		return os.Getenv(name)
	}

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		if !found || key == "" {
			return nil, fmt.Errorf("%s:%d: expected KEY=value", path, lineNo)
		}

		result[key] = dotEnvValue(strings.TrimSpace(value), lookup)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	return result, nil
}

func dotEnvValue(raw string, lookup func(string) string) string {
	if len(raw) >= 2 {
		switch {
		case raw[0] == '\'' && raw[len(raw)-1] == '\'':
			return raw[1 : len(raw)-1]
		case raw[0] == '"' && raw[len(raw)-1] == '"':
			unquoted := strings.NewReplacer(`\n`, "\n", `\"`, `"`).Replace(raw[1 : len(raw)-1])
			return os.Expand(unquoted, lookup)
		}
	}
	return os.Expand(raw, lookup)
}

// LoadDotEnvVariables reads each existing file in order and returns the
// merged variables. Missing files are skipped.
func LoadDotEnvVariables(paths ...string) (map[string]any, error) {
	result := make(map[string]any)
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		vars, err := LoadDotEnv(path)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result, nil
}
