package stream

import (
	"io"
	"sort"
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// MultiInStream owns an ordered list of child InStreams and presents them
// as one concatenated, virtually-addressed InStream (spec.md §4.3
// "Multi" variant).
type MultiInStream struct {
	mu       sync.Mutex
	children []InStream
	starts   []int64 // starts[i] is the virtual offset where children[i] begins
	total    int64
	pos      int64
	opened   bool
}

// NewMultiInStream builds a MultiInStream over children, in order.
func NewMultiInStream(children ...InStream) *MultiInStream {
	return &MultiInStream{children: children}
}

// Open opens each child in order, measuring its size by seeking to end
// and rewinding, and builds the virtual concatenated address space
// (spec.md §4.3).
func (m *MultiInStream) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return nil
	}

	starts := make([]int64, len(m.children))
	var total int64
	for i, c := range m.children {
		if err := c.Open(); err != nil {
			return err
		}
		size, err := c.Seek(0, SeekEnd)
		if err != nil {
			return err
		}
		if _, err := c.Seek(0, SeekStart); err != nil {
			return err
		}
		starts[i] = total
		total += size
	}

	m.starts = starts
	m.total = total
	m.pos = 0
	m.opened = true
	return nil
}

func (m *MultiInStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return nil
	}
	var first error
	for _, c := range m.children {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.opened = false
	return first
}

func (m *MultiInStream) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// Erase requires every child to be erasable; it erases all children and
// succeeds only if all of them succeeded (spec.md §4.3).
func (m *MultiInStream) Erase(mode EraseMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return errAlreadyOpen()
	}
	var first error
	for _, c := range m.children {
		if err := c.Erase(mode); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// childIndexFor returns the index of the child covering virtual offset
// off, via binary search over starts.
func (m *MultiInStream) childIndexFor(off int64) int {
	idx := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > off })
	return idx - 1
}

func (m *MultiInStream) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	if m.pos >= m.total {
		return 0, io.EOF
	}

	total := 0
	for total < len(buf) && m.pos < m.total {
		ci := m.childIndexFor(m.pos)
		child := m.children[ci]
		childOffset := m.pos - m.starts[ci]

		if _, err := child.Seek(childOffset, SeekStart); err != nil {
			return total, err
		}

		var limit int64 = m.total - m.starts[ci]
		if ci+1 < len(m.starts) {
			limit = m.starts[ci+1] - m.starts[ci]
		}
		remaining := limit - childOffset
		want := int64(len(buf) - total)
		if want > remaining {
			want = remaining
		}
		if want <= 0 {
			break
		}

		n, err := child.Read(buf[total : int64(total)+want])
		total += n
		m.pos += int64(n)
		if err != nil && err != io.EOF {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (m *MultiInStream) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(m.pos, m.total, offset, whence)
	if err != nil {
		return 0, err
	}
	if np > m.total {
		return 0, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: seek past end of multi-stream")
	}
	m.pos = np
	return np, nil
}

func (m *MultiInStream) Size() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, m.opened
}
