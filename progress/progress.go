// Package progress implements the progress-delegate, cancellation and
// password-provider contracts of spec.md §4.9: the three callback
// surfaces the decoder and encoder engines use to report progress,
// observe cooperative abort requests, and ask the caller for a password
// when encrypted data is encountered without one preset.
//
// Grounded on github.com/nabbar/golib/ioutils/ioprogress's atomic-boxed
// callback registration (a callback stored behind an atomic.Value so it
// can be swapped or cleared while a copy loop is in flight, and invoked
// without holding any lock across the call) and on the cooperative-abort
// flag shape used by github.com/nabbar/golib/ioutils/fileProgess.go's
// copy loop, which polls a context for cancellation at each buffer-sized
// read.
package progress

import (
	"sync"

	"github.com/go-arcsdk/arcsdk/atomic"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// Delegate is the progress callback contract: invoked with the item path
// currently being processed (empty for whole-operation progress) and a
// completion fraction in [0, 1]. Calls for one operation are monotonic
// per item and globally non-decreasing, and are serialized — the engine
// never has two delegate calls in flight at once (spec.md §4.9/§7).
type Delegate func(path string, fraction float64)

// Reporter holds a swappable, atomic-boxed Delegate (the teacher's
// callback shape) and serializes calls into it by holding its own mutex
// for the duration of each call.
type Reporter struct {
	mu  sync.Mutex // serializes delegate invocations, not state access
	box *atomic.Value[Delegate]
}

// NewReporter returns a Reporter with no delegate set.
func NewReporter() *Reporter {
	return &Reporter{box: atomic.NewValue[Delegate](nil)}
}

// Set installs delegate, replacing any previous one. A nil delegate
// clears reporting.
func (r *Reporter) Set(delegate Delegate) { r.box.Store(delegate) }

// Clear removes any installed delegate.
func (r *Reporter) Clear() { r.box.Store(nil) }

// Report invokes the installed delegate, if any, serialized against any
// concurrent Report call. It must not be called while the caller holds a
// lock the delegate might need, per spec.md §4.9's "must not call back
// into the engine" rule.
func (r *Reporter) Report(path string, fraction float64) {
	d := r.box.Load()
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d(path, fraction)
}

// Canceller is a cooperative, idempotent abort flag. Codec poll points
// read it via Cancelled; Abort may be called from any goroutine.
type Canceller struct {
	flag *atomic.Value[bool]
}

// NewCanceller returns a Canceller in the not-cancelled state.
func NewCanceller() *Canceller {
	return &Canceller{flag: atomic.NewValue(false)}
}

// Abort requests cancellation. Idempotent: calling it more than once has
// no additional effect (spec.md §4.9).
func (c *Canceller) Abort() { c.flag.Store(true) }

// Cancelled reports whether Abort has been called.
func (c *Canceller) Cancelled() bool { return c.flag.Load() }

// PasswordProvider supplies a password on demand when the engine meets
// encrypted data without one preset. Returning ok=false causes the
// engine to fail the operation with a password-class error.
type PasswordProvider func() (password string, ok bool)

// PasswordSource resolves a password either from a preset value or from
// a caller-installed PasswordProvider, matching spec.md §4.9's "engine-
// initiated" password callback and §4.7/§4.8's set_password surface.
type PasswordSource struct {
	preset   *atomic.Value[string]
	hasPre   *atomic.Value[bool]
	provider *atomic.Value[PasswordProvider]
}

// NewPasswordSource returns a PasswordSource with no preset password and
// no provider installed.
func NewPasswordSource() *PasswordSource {
	return &PasswordSource{
		preset:   atomic.NewValue(""),
		hasPre:   atomic.NewValue(false),
		provider: atomic.NewValue[PasswordProvider](nil),
	}
}

// SetPreset arms a preset password, as set_password(utf8|wide) does in
// spec.md §4.7/§4.8.
func (s *PasswordSource) SetPreset(password string) {
	s.preset.Store(password)
	s.hasPre.Store(true)
}

// ClearPreset removes any preset password.
func (s *PasswordSource) ClearPreset() {
	s.preset.Store("")
	s.hasPre.Store(false)
}

// SetProvider installs a PasswordProvider the engine may call when it
// meets encrypted data with no preset password.
func (s *PasswordSource) SetProvider(p PasswordProvider) { s.provider.Store(p) }

// ErrNoPassword is returned by Resolve when neither a preset password
// nor a provider yields one.
var ErrNoPassword = arcerrors.New(arcerrors.CodePassword, "progress: no password available")

// Resolve returns the password to use: the preset if armed, otherwise
// the installed provider's result, otherwise ErrNoPassword.
func (s *PasswordSource) Resolve() (string, error) {
	if s.hasPre.Load() {
		return s.preset.Load(), nil
	}
	if p := s.provider.Load(); p != nil {
		if pw, ok := p(); ok {
			return pw, nil
		}
	}
	return "", ErrNoPassword
}
