package decoder

import (
	"io"
	"sync"

	"github.com/go-arcsdk/arcsdk/stream"
)

// streamReaderAt adapts a stream.InStream (Seek + Read) into an
// io.ReaderAt for consumers (the 7z reader) that need random access
// without knowing about this engine's InStream contract. Every ReadAt
// call seeks under a mutex, since InStream's own per-object lock only
// guarantees one call at a time is safe, not that interleaved
// Seek-then-Read pairs from concurrent callers stay atomic.
type streamReaderAt struct {
	mu sync.Mutex
	s  stream.InStream
}

func newStreamReaderAt(s stream.InStream) *streamReaderAt {
	return &streamReaderAt{s: s}
}

func (r *streamReaderAt) ReadAt(p []byte, off int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.s.Seek(off, stream.SeekStart); err != nil {
		return 0, err
	}
	total := 0
	for total < len(p) {
		n, err := r.s.Read(p[total:])
		total += n
		if err == io.EOF {
			if total > 0 {
				return total, nil
			}
			return total, io.EOF
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

func streamSize(s stream.InStream) (int64, error) {
	size, err := s.Seek(0, stream.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := s.Seek(0, stream.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
