// Package settings holds the four process-wide tunables of spec.md
// §4.11/§6: stream read size, stream write size, decoder read buffer and
// decoder write buffer. Snap captures all four at once. The decoder and
// encoder packages do not read these tunables; their copy buffers have
// fixed sizes.
//
// Grounded on the atomic.Value[T] box in this module's atomic package
// (itself grounded on github.com/nabbar/golib/atomic) and on the Size type
// in this module's size package (grounded on github.com/nabbar/golib/size).
// Defaults follow spec.md §4.11: smaller on mobile, larger on desktop,
// selected at build time via the "mobile" build tag (Design Notes §9).
package settings

import (
	"github.com/go-arcsdk/arcsdk/atomic"
	"github.com/go-arcsdk/arcsdk/size"
)

var (
	streamRead     = atomic.NewValue(defaultStreamRead)
	streamWrite    = atomic.NewValue(defaultStreamWrite)
	decoderRead    = atomic.NewValue(defaultDecoderRead)
	decoderWrite   = atomic.NewValue(defaultDecoderWrite)
)

// StreamReadSize returns the current default read-buffer size for streams.
func StreamReadSize() size.Size { return streamRead.Load() }

// SetStreamReadSize sets the default read-buffer size for streams.
func SetStreamReadSize(s size.Size) { streamRead.Store(s) }

// StreamWriteSize returns the current default write-buffer size for streams.
func StreamWriteSize() size.Size { return streamWrite.Load() }

// SetStreamWriteSize sets the default write-buffer size for streams.
func SetStreamWriteSize(s size.Size) { streamWrite.Store(s) }

// DecoderReadSize returns the current default read-buffer size for the decoder.
func DecoderReadSize() size.Size { return decoderRead.Load() }

// SetDecoderReadSize sets the default read-buffer size for the decoder.
func SetDecoderReadSize(s size.Size) { decoderRead.Store(s) }

// DecoderWriteSize returns the current default write-buffer size for the decoder.
func DecoderWriteSize() size.Size { return decoderWrite.Load() }

// SetDecoderWriteSize sets the default write-buffer size for the decoder.
func SetDecoderWriteSize(s size.Size) { decoderWrite.Store(s) }

// Snapshot is the set of tunables read at the start of one engine
// operation; spec.md §4.11 requires in-flight operations to keep using
// the values observed at their start even if a setter runs concurrently.
type Snapshot struct {
	StreamRead   size.Size
	StreamWrite  size.Size
	DecoderRead  size.Size
	DecoderWrite size.Size
}

// Snap captures the current tunables for one operation.
func Snap() Snapshot {
	return Snapshot{
		StreamRead:   StreamReadSize(),
		StreamWrite:  StreamWriteSize(),
		DecoderRead:  DecoderReadSize(),
		DecoderWrite: DecoderWriteSize(),
	}
}
