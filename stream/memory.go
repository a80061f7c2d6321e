package stream

import (
	"io"
	"math"
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// MemoryInStream is an in-memory InStream. When owned is true the bytes
// given to New were copied (spec.md §4.3 "Memory-owned"); when false they
// are borrowed from the caller and free is invoked exactly once, at
// Close, never on a construction-time error (spec.md §4.3
// "Memory-borrowed").
type MemoryInStream struct {
	mu     sync.Mutex
	data   []byte
	pos    int64
	opened bool
	owned  bool
	freed  bool
	free   func()
}

// NewMemoryOwnedInStream copies data into a new InStream.
func NewMemoryOwnedInStream(data []byte) *MemoryInStream {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &MemoryInStream{data: cp, owned: true}
}

// NewMemoryBorrowedInStream borrows data; free is called exactly once
// when the stream is closed (or garbage collected via Close being called
// by the owner), never during construction.
func NewMemoryBorrowedInStream(data []byte, free func()) *MemoryInStream {
	return &MemoryInStream{data: data, owned: false, free: free}
}

func (s *MemoryInStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	s.pos = 0
	return nil
}

func (s *MemoryInStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	if !s.owned && s.free != nil && !s.freed {
		s.freed = true
		s.free()
	}
	return nil
}

func (s *MemoryInStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *MemoryInStream) Erase(EraseMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return errAlreadyOpen()
	}
	s.data = nil
	return nil
}

func (s *MemoryInStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(buf, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *MemoryInStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(s.pos, int64(len(s.data)), offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = np
	return np, nil
}

func (s *MemoryInStream) Size() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), true
}

func resolveSeek(cur, size, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = cur
	case SeekEnd:
		base = size
	default:
		return 0, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: invalid seek whence")
	}
	np := base + offset
	if np < 0 {
		return 0, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: seek before start of stream")
	}
	return np, nil
}

// MemoryOutStream is an auto-growing in-memory OutStream (spec.md §4.4
// "Memory" variant). A size request beyond the platform's addressable
// limit fails with not_enough_memory and is stashed until the next safe
// read of the error.
type MemoryOutStream struct {
	mu      sync.Mutex
	data    []byte
	pos     int64
	size    int64
	opened  bool
	stashed error
}

// NewMemoryOutStream returns an unopened, empty MemoryOutStream.
func NewMemoryOutStream() *MemoryOutStream {
	return &MemoryOutStream{}
}

func (s *MemoryOutStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	s.pos = 0
	return nil
}

func (s *MemoryOutStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	err := s.stashed
	s.stashed = nil
	return err
}

func (s *MemoryOutStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *MemoryOutStream) Erase(EraseMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return errAlreadyOpen()
	}
	s.data = nil
	s.size = 0
	return nil
}

// CopyContent returns the bytes written in their write offsets, zero-
// filled up to the current size (spec.md §8's testable property).
func (s *MemoryOutStream) CopyContent() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, s.size)
	copy(out, s.data)
	return out, nil
}

func (s *MemoryOutStream) ensureCapacity(n int64) error {
	if n > int64(math.MaxInt) {
		s.stashed = arcerrors.New(arcerrors.CodeNotEnoughMemory, "stream: memory stream exceeds addressable limit")
		return s.stashed
	}
	if n <= int64(len(s.data)) {
		return nil
	}
	grown := make([]byte, n)
	copy(grown, s.data)
	s.data = grown
	return nil
}

func (s *MemoryOutStream) Write(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	end := s.pos + int64(len(buf))
	if err := s.ensureCapacity(end); err != nil {
		return 0, err
	}
	copy(s.data[s.pos:end], buf)
	s.pos = end
	if s.pos > s.size {
		s.size = s.pos
	}
	return len(buf), nil
}

func (s *MemoryOutStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(s.pos, s.size, offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = np
	return np, nil
}

func (s *MemoryOutStream) SetSize(newSize int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return errNotOpen()
	}
	if newSize < 0 {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: negative size")
	}
	if err := s.ensureCapacity(newSize); err != nil {
		return err
	}
	if newSize < s.size {
		for i := newSize; i < int64(len(s.data)); i++ {
			s.data[i] = 0
		}
	}
	s.size = newSize
	if s.pos > s.size {
		s.pos = s.size
	}
	return nil
}

// TestOutStream discards all writes but reports them as consumed,
// matching spec.md §4.4's "Test" variant used by the decoder's test()
// method. It is grounded on io.Discard / the teacher's
// ioutils/multi/discard.go.
type TestOutStream struct {
	mu      sync.Mutex
	opened  bool
	size    int64
	pos     int64
}

// NewTestOutStream returns an unopened TestOutStream.
func NewTestOutStream() *TestOutStream { return &TestOutStream{} }

func (s *TestOutStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = true
	s.pos = 0
	return nil
}

func (s *TestOutStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	return nil
}

func (s *TestOutStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *TestOutStream) Erase(EraseMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return errAlreadyOpen()
	}
	s.size = 0
	return nil
}

func (s *TestOutStream) CopyContent() ([]byte, error) {
	return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: test stream discards content")
}

func (s *TestOutStream) Write(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	s.pos += int64(len(buf))
	if s.pos > s.size {
		s.size = s.pos
	}
	return len(buf), nil
}

func (s *TestOutStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(s.pos, s.size, offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = np
	return np, nil
}

func (s *TestOutStream) SetSize(newSize int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return errNotOpen()
	}
	s.size = newSize
	return nil
}
