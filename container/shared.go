package container

import "sync/atomic"

// sharedBox is the refcounted storage behind a Shared handle. Multiple
// Shared[T] values can point at the same box; the underlying value is
// released via closer exactly once, when the last handle drops.
type sharedBox[T any] struct {
	refs   atomic.Int32
	val    T
	closer func(T)
}

// Shared is a reference-counted handle, modeling the shared-pointer
// ownership the original PLzmaSDK C++ engine uses for items and open
// streams so a Decoder/Encoder and the caller's arrays can both reference
// the same underlying object and release it exactly once (spec.md §4.2).
type Shared[T any] struct {
	box *sharedBox[T]
}

// NewShared wraps val in a fresh, single-reference Shared handle. closer
// runs when the last handle derived from this one is released; it may be
// nil when val needs no cleanup.
func NewShared[T any](val T, closer func(T)) *Shared[T] {
	b := &sharedBox[T]{val: val, closer: closer}
	b.refs.Store(1)
	return &Shared[T]{box: b}
}

// Get returns the held value. Calling Get after Release has dropped the
// last reference still returns the last-seen value; the caller is
// responsible for not using a Shared handle past its own Release call.
func (s *Shared[T]) Get() T { return s.box.val }

// Retain returns a new handle sharing the same underlying box, incrementing
// the reference count.
func (s *Shared[T]) Retain() *Shared[T] {
	s.box.refs.Add(1)
	return &Shared[T]{box: s.box}
}

// Release decrements the reference count and runs the closer when it
// reaches zero. Safe to call exactly once per handle returned by NewShared
// or Retain.
func (s *Shared[T]) Release() {
	if s.box.refs.Add(-1) == 0 && s.box.closer != nil {
		s.box.closer(s.box.val)
	}
}

// RefCount reports the current reference count, for tests and diagnostics.
func (s *Shared[T]) RefCount() int32 { return s.box.refs.Load() }

// Weak is a non-owning reference to a Shared handle's box: it observes
// whether the value is still alive without extending its lifetime,
// mirroring the weak_ptr the original engine uses to let a stream refer
// back to its owning array without creating a reference cycle.
type Weak[T any] struct {
	box *sharedBox[T]
}

// Downgrade produces a Weak reference from a Shared handle.
func Downgrade[T any](s *Shared[T]) Weak[T] {
	return Weak[T]{box: s.box}
}

// Upgrade returns a new Shared handle if the box is still alive (reference
// count > 0), incrementing the count; ok is false once the last owning
// handle has released.
func (w Weak[T]) Upgrade() (s *Shared[T], ok bool) {
	for {
		cur := w.box.refs.Load()
		if cur <= 0 {
			return nil, false
		}
		if w.box.refs.CompareAndSwap(cur, cur+1) {
			return &Shared[T]{box: w.box}, true
		}
	}
}

// CastShared reinterprets a Shared[From] as a Shared[To] sharing the same
// refcounted box, for the base/derived relationships spec.md §4.2 calls
// out (e.g. a Shared[Stream] handed back as a Shared[InStream]). conv must
// be a pure type-level projection; it does not affect the box's lifetime.
func CastShared[From, To any](s *Shared[From], conv func(From) (To, bool)) (*Shared[To], bool) {
	to, ok := conv(s.box.val)
	if !ok {
		return nil, false
	}
	s.box.refs.Add(1)
	casted := &sharedBox[To]{val: to, closer: func(To) {
		if s.box.refs.Add(-1) == 0 && s.box.closer != nil {
			s.box.closer(s.box.val)
		}
	}}
	casted.refs.Store(1)
	return &Shared[To]{box: casted}, true
}
