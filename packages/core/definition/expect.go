package definition

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expect describes the expected response. When neither Headers nor Body is set
// the whole Value is applied as a single literal assertion.
type Expect struct {
	Value   any
	Headers Fields
	Body    *Value[any]
}

// ExpectValue builds a literal expectation: a status code, body text, regexp,
// check function or a value compared to the JSON body.
func ExpectValue(v any) *Expect {
	return &Expect{Value: v}
}

// ExpectBody returns a literal body expectation for use in a structured Expect.
func ExpectBody(v any) *Value[any] {
	b := Literal(v)
	return &b
}

// ExpectBodyFunc returns a body expectation computed at assertion time.
func ExpectBodyFunc(fn func() any) *Value[any] {
	b := Producer(fn)
	return &b
}

// Structured reports whether headers or body are declared.
func (e *Expect) Structured() bool {
	return e != nil && (e.Headers != nil || e.Body != nil)
}

func (e *Expect) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && hasKey(node, "headers", "body") {
		var raw struct {
			Headers Fields      `yaml:"headers"`
			Body    *Value[any] `yaml:"body"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		for i, field := range raw.Headers {
			raw.Headers[i].Value = Pattern(field.Value)
		}
		*e = Expect{Headers: raw.Headers, Body: raw.Body}
		if e.Headers == nil && e.Body == nil {
			// "body: null" still selects the structured form
			e.Body = ExpectBody(nil)
		}
		return nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	*e = Expect{Value: Pattern(v)}
	return nil
}

// Pattern turns a "/expr/" string into a compiled regular expression. Other
// values, and strings that do not compile, are returned unchanged.
func Pattern(v any) any {
	s, ok := v.(string)
	if !ok || len(s) < 2 || !strings.HasPrefix(s, "/") || !strings.HasSuffix(s, "/") {
		return v
	}
	re, err := regexp.Compile(s[1 : len(s)-1])
	if err != nil {
		return v
	}
	return re
}

func hasKey(node *yaml.Node, keys ...string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		for _, k := range keys {
			if node.Content[i].Value == k {
				return true
			}
		}
	}
	return false
}
