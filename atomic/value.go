// Package atomic provides a tiny generic, type-safe wrapper over
// sync/atomic.Value, grounded on github.com/nabbar/golib/atomic's
// Value[T] pattern (trimmed to Load/Store — the settings and progress
// packages need nothing more elaborate).
package atomic

import "sync/atomic"

// Value is a type-safe atomic box for T.
type Value[T any] struct {
	v atomic.Value
}

type box[T any] struct {
	val T
}

// NewValue returns a Value initialized to init.
func NewValue[T any](init T) *Value[T] {
	o := &Value[T]{}
	o.Store(init)
	return o
}

// Load returns the current value, or the zero value of T if never stored.
func (o *Value[T]) Load() T {
	v := o.v.Load()
	if v == nil {
		var zero T
		return zero
	}
	return v.(box[T]).val
}

// Store sets the current value atomically.
func (o *Value[T]) Store(val T) {
	o.v.Store(box[T]{val: val})
}
