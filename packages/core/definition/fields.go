package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is a single named entry of an ordered mapping.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered mapping used for request headers and expected headers.
// A nil Fields means the facet is absent; an empty non-nil Fields is present
// but has no entries.
type Fields []Field

// NewFields builds Fields from alternating name/value arguments.
func NewFields(pairs ...any) Fields {
	f := make(Fields, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		f = f.With(fmt.Sprint(pairs[i]), pairs[i+1])
	}
	return f
}

func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Name
	}
	return keys
}

// With returns a copy of f with name set to value. An existing entry keeps its
// position; a new one is appended.
func (f Fields) With(name string, value any) Fields {
	out := make(Fields, len(f), len(f)+1)
	copy(out, f)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Name: name, Value: value})
}

// MergeFields overlays override on base the way an object spread does:
// override wins per key, base order is kept and new keys are appended.
// The result is nil only when both inputs are nil.
func MergeFields(base, override Fields) Fields {
	if base == nil && override == nil {
		return nil
	}
	out := make(Fields, 0, len(base)+len(override))
	out = append(out, base...)
	for _, field := range override {
		out = out.With(field.Name, field.Value)
	}
	return out
}

func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		out = out.With(node.Content[i].Value, value)
	}
	*f = out
	return nil
}
