package env

import (
	"reflect"
	"testing"
)

func TestResolverResolve(t *testing.T) {
	t.Setenv("HITSUITE_TEST_TOKEN", "from-env")

	tests := []struct {
		name      string
		input     string
		variables map[string]any
		expected  string
		wantErr   bool
	}{
		{
			name:     "no variables",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:      "simple variable",
			input:     "hello {{name}}",
			variables: map[string]any{"name": "world"},
			expected:  "hello world",
		},
		{
			name:      "multiple variables",
			input:     "{{greeting}} {{ name }}!",
			variables: map[string]any{"greeting": "Hello", "name": "World"},
			expected:  "Hello World!",
		},
		{
			name:     "environment variable",
			input:    "Bearer {{$HITSUITE_TEST_TOKEN}}",
			expected: "Bearer from-env",
		},
		{
			name:     "function call",
			input:    `/users/{{base64("a")}}`,
			expected: "/users/YQ==",
		},
		{
			name:    "unresolved variable",
			input:   "hello {{unknown}}",
			wantErr: true,
		},
		{
			name:    "unset environment variable",
			input:   "{{$HITSUITE_TEST_MISSING}}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)

			got, err := r.Resolve(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverResolveValueKeepsType(t *testing.T) {
	r := NewResolver()
	r.SetVariable("count", 3)

	got, err := r.ResolveValue("{{count}}")
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("ResolveValue() = %#v, want 3", got)
	}

	got, err = r.ResolveValue("n={{count}}")
	if err != nil {
		t.Fatal(err)
	}
	if got != "n=3" {
		t.Errorf("ResolveValue() = %#v, want \"n=3\"", got)
	}
}

func TestResolverUnresolved(t *testing.T) {
	r := NewResolver()
	r.SetVariable("bar", "middle")

	got := r.Unresolved("{{foo}} and {{bar}} and {{ baz }}")
	want := []string{"foo", "baz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}

	if got := r.Unresolved("{{bar}}"); got != nil {
		t.Errorf("Unresolved() = %v, want nil", got)
	}
}

func TestHasTemplate(t *testing.T) {
	if !HasTemplate("/users/{{id}}") {
		t.Error("HasTemplate() = false for a template")
	}
	if HasTemplate("/users/{id}") {
		t.Error("HasTemplate() = true for a plain string")
	}
}

func TestLoadSystemEnvAndAssignments(t *testing.T) {
	t.Setenv(VariablePrefix+"token", "abc")

	vars := LoadSystemEnv(VariablePrefix)
	if vars["token"] != "abc" {
		t.Errorf("LoadSystemEnv() token = %v, want abc", vars["token"])
	}

	assigned := ParseAssignments([]string{"a=1", "b=x=y", "broken", "=skip"})
	want := map[string]any{"a": "1", "b": "x=y"}
	if !reflect.DeepEqual(assigned, want) {
		t.Errorf("ParseAssignments() = %v, want %v", assigned, want)
	}

	merged := MergeVariables(map[string]any{"a": 1, "b": 1}, map[string]any{"b": 2})
	if merged["a"] != 1 || merged["b"] != 2 {
		t.Errorf("MergeVariables() = %v", merged)
	}
}
