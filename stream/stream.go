// Package stream implements the polymorphic InStream/OutStream
// abstraction of spec.md §4.3/§4.4: random-access byte sources and sinks
// backed by files, in-memory buffers, user callbacks, and concatenated or
// split (multi-volume) collections of any of the above.
//
// Grounded on github.com/nabbar/golib/ioutils's family of io.ReadCloser/
// io.WriteCloser wrappers (fileProgess.go's buffered, mutex-guarded copy
// loop; ioutils/multi's broadcast writer; ioutils/encrypt's
// open/close/erase-shaped interface) generalized from single-purpose
// wrappers into the open/close/opened/erase/seek contract spec.md asks
// every stream variant to share. Each concrete type follows the
// teacher's per-object sync.Mutex discipline for opened/offset/size/error
// state instead of relying on the caller to serialize access.
package stream

import (
	"io"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// EraseMode selects how Erase destroys a stream's backing storage.
type EraseMode int

const (
	// EraseNone deletes the backing storage without first overwriting it.
	EraseNone EraseMode = iota
	// EraseZero overwrites the backing storage with zeros before deleting
	// it (files only; a no-op distinction for memory-backed streams,
	// which are simply dropped).
	EraseZero
)

// Whence values reuse io.SeekStart/SeekCurrent/SeekEnd so callers can pass
// the stdlib constants directly.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// InStream is a polymorphic, seekable, random-access byte source
// (spec.md §4.3). State transitions closed→open→closed; Read/Seek are
// valid only while open.
type InStream interface {
	Open() error
	Close() error
	Opened() bool
	Erase(mode EraseMode) error
	Read(buf []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// SizedInStream is implemented by InStream variants that know their total
// size up front (file and memory variants; callback streams may not).
type SizedInStream interface {
	InStream
	Size() (int64, bool)
}

// OutStream is a polymorphic, seekable, random-access byte sink
// (spec.md §4.4).
type OutStream interface {
	Open() error
	Close() error
	Opened() bool
	Erase(mode EraseMode) error
	CopyContent() ([]byte, error)
	Write(buf []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SetSize(size int64) error
}

// errNotOpen and errAlreadyOpen are the invalid_arguments-class failures
// every variant reports for read/write/seek/erase-while-open misuse
// (spec.md §4.3/§4.4: "seek/read only valid while open"; "erase rejected
// while open").
func errNotOpen() error {
	return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: operation requires an open stream")
}

func errAlreadyOpen() error {
	return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: erase rejected while stream is open")
}
