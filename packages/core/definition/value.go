package definition

import "gopkg.in/yaml.v3"

// Value is either a literal or a zero-argument producer. Producers are invoked
// on every Resolve call, never memoized.
type Value[T any] struct {
	literal  T
	producer func() T
	set      bool
}

// Literal wraps a fixed value.
func Literal[T any](v T) Value[T] {
	return Value[T]{literal: v, set: true}
}

// Producer wraps a function evaluated at dispatch time.
func Producer[T any](fn func() T) Value[T] {
	return Value[T]{producer: fn, set: fn != nil}
}

// IsSet reports whether the field was given at all.
func (v Value[T]) IsSet() bool {
	return v.set
}

// IsProducer reports whether Resolve invokes a function.
func (v Value[T]) IsProducer() bool {
	return v.producer != nil
}

// Resolve returns the literal, or the producer's result.
func (v Value[T]) Resolve() T {
	if v.producer != nil {
		return v.producer()
	}
	return v.literal
}

func (v *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	var lit T
	if err := node.Decode(&lit); err != nil {
		return err
	}
	*v = Literal(lit)
	return nil
}
