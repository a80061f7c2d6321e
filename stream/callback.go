package stream

import (
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// CallbackInStream adapts caller-supplied open/close/seek/read callbacks
// plus an opaque context with an optional deinitializer run at Close
// (spec.md §4.3 "Callback" variant).
type CallbackInStream struct {
	mu     sync.Mutex
	ctx    any
	opened bool

	openFn  func(ctx any) (bool, error)
	closeFn func(ctx any) error
	readFn  func(ctx any, buf []byte) (int, error)
	seekFn  func(ctx any, offset int64, whence int) (int64, error)
	deinit  func(ctx any)
}

// CallbackInStreamConfig bundles the callbacks a CallbackInStream needs.
// OpenFn reports ok=false (not an error) when the user-supplied open
// logic declines to open; per spec.md §4.3 that is reported as an IO
// error, distinct from an error returned by OpenFn itself.
type CallbackInStreamConfig struct {
	Context     any
	OpenFn      func(ctx any) (ok bool, err error)
	CloseFn     func(ctx any) error
	ReadFn      func(ctx any, buf []byte) (int, error)
	SeekFn      func(ctx any, offset int64, whence int) (int64, error)
	Deinitializer func(ctx any)
}

// NewCallbackInStream builds a CallbackInStream from cfg.
func NewCallbackInStream(cfg CallbackInStreamConfig) *CallbackInStream {
	return &CallbackInStream{
		ctx:     cfg.Context,
		openFn:  cfg.OpenFn,
		closeFn: cfg.CloseFn,
		readFn:  cfg.ReadFn,
		seekFn:  cfg.SeekFn,
		deinit:  cfg.Deinitializer,
	}
}

func (s *CallbackInStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil
	}
	ok, err := s.openFn(s.ctx)
	if err != nil {
		return err
	}
	if !ok {
		return arcerrors.New(arcerrors.CodeIO, "stream: user open callback returned false")
	}
	s.opened = true
	return nil
}

func (s *CallbackInStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return nil
	}
	var err error
	if s.closeFn != nil {
		err = s.closeFn(s.ctx)
	}
	s.opened = false
	if s.deinit != nil {
		s.deinit(s.ctx)
		s.deinit = nil
	}
	return err
}

func (s *CallbackInStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Erase is not supported for callback streams: the engine has no
// knowledge of what backing storage, if any, the callbacks front.
func (s *CallbackInStream) Erase(EraseMode) error {
	return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: erase is not supported for callback streams")
}

func (s *CallbackInStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	return s.readFn(s.ctx, buf)
}

func (s *CallbackInStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	return s.seekFn(s.ctx, offset, whence)
}
