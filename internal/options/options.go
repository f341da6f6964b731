// Package options implements the functional options shared by the reader,
// writer and source constructors.
package options

import "fmt"

// Option configures a target of type T, typically a pointer to a config struct.
type Option[T any] interface {
	apply(T) error
}

// Func is an Option backed by a function.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option whose function may reject its input.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// When returns opt if cond holds and nil otherwise. Apply skips nil options,
// so When can build an option list inline.
func When[T any](cond bool, opt Option[T]) Option[T] {
	if !cond {
		return nil
	}

	return opt
}

// Apply applies opts to target in order and stops at the first failing option.
//
// Nil options are skipped. The returned error wraps the option's error and
// names its position in opts.
func Apply[T any](target T, opts ...Option[T]) error {
	for i, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}

	return nil
}
