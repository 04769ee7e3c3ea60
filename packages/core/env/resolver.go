package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitsuite/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// HasTemplate reports whether s contains at least one {{...}} expression.
func HasTemplate(s string) bool {
	return variablePattern.MatchString(s)
}

// Resolver evaluates template expressions against user variables, the process
// environment and the builtin generator functions. It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     *builtin.Registry
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

// Functions exposes the generator registry for custom registrations.
func (r *Resolver) Functions() *builtin.Registry {
	return r.funcs
}

// Resolve replaces every expression in input. An expression that cannot be
// resolved is an error.
func (r *Resolver) Resolve(input string) (string, error) {
	var firstErr error
	out := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		v, err := r.eval(match[2 : len(match)-2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return fmt.Sprint(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ResolveValue is like Resolve, but an input consisting of one expression
// keeps the type of its value, so "{{random(1, 9)}}" yields an int.
func (r *Resolver) ResolveValue(input string) (any, error) {
	loc := variablePattern.FindStringIndex(input)
	if loc != nil && loc[0] == 0 && loc[1] == len(input) {
		return r.eval(input[2 : len(input)-2])
	}
	return r.Resolve(input)
}

// Unresolved lists the expressions in input that would fail to resolve.
func (r *Resolver) Unresolved(input string) []string {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		if _, err := r.eval(m[1]); err != nil {
			missing = append(missing, strings.TrimSpace(m[1]))
		}
	}
	return missing
}

func (r *Resolver) eval(expr string) (any, error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(expr, "$") {
		name := expr[1:]
		if val, ok := os.LookupEnv(name); ok {
			return val, nil
		}
		return nil, fmt.Errorf("unresolved environment variable: $%s", name)
	}

	if builtin.IsCall(expr) {
		return r.funcs.Call(expr)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if val, ok := r.variables[expr]; ok {
		return val, nil
	}
	return nil, fmt.Errorf("unresolved variable: %s", expr)
}
