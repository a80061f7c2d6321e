package stream

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// MaxParts is the 999-part cap spec.md §4.4 places on the numeric
// `name.ext.NNN` part-naming format.
const MaxParts = 999

// partName renders the 1-based part index as `name.ext.NNN`.
func partName(name, ext string, index int) string {
	base := name
	if ext != "" {
		base = name + "." + ext
	}
	return fmt.Sprintf("%s.%03d", base, index+1)
}

// splitWrite computes the multi-stream write-dispatch plan of spec.md
// §4.4: for a write at virtual offset O of length L with part size P,
// part index i = O div P, within-part offset o = O − i·P, writable =
// P − o; each returned chunk is written to its part in order.
type writeChunk struct {
	partIndex int
	partOff   int64
	length    int64
}

func splitWrite(offset, length, partSize int64) []writeChunk {
	var chunks []writeChunk
	o := offset
	remaining := length
	for remaining > 0 {
		i := o / partSize
		within := o - i*partSize
		writable := partSize - within
		n := remaining
		if n > writable {
			n = writable
		}
		chunks = append(chunks, writeChunk{partIndex: int(i), partOff: within, length: n})
		o += n
		remaining -= n
	}
	return chunks
}

// MultiFileOutStream is a directory of numbered part files backing one
// logical OutStream (spec.md §4.4 "Multi (file-backed)" variant).
type MultiFileOutStream struct {
	mu       sync.Mutex
	dir      string
	name     string
	ext      string
	partSize int64
	parts    []*FileOutStream
	pos      int64
	size     int64
	opened   bool
}

// NewMultiFileOutStream constructs a MultiFileOutStream; dir is created on
// Open if missing.
func NewMultiFileOutStream(dir, name, ext string, partSize int64) *MultiFileOutStream {
	return &MultiFileOutStream{dir: dir, name: name, ext: ext, partSize: partSize}
}

func (m *MultiFileOutStream) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return nil
	}
	if err := os.MkdirAll(m.dir, 0o775); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: creating multi-stream directory", err)
	}
	m.opened = true
	m.pos = 0
	return nil
}

func (m *MultiFileOutStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return nil
	}
	var first error
	for _, p := range m.parts {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.opened = false
	return first
}

func (m *MultiFileOutStream) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

func (m *MultiFileOutStream) Erase(mode EraseMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return errAlreadyOpen()
	}
	for i := range m.parts {
		p := NewFileOutStream(filepath.Join(m.dir, partName(m.name, m.ext, i)))
		if err := p.Erase(mode); err != nil {
			return err
		}
	}
	if err := os.Remove(m.dir); err != nil && !os.IsNotExist(err) {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: removing multi-stream directory", err)
	}
	return nil
}

func (m *MultiFileOutStream) ensurePart(index int) (*FileOutStream, error) {
	if index >= MaxParts {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: multi-stream part count exceeds 999")
	}
	for index >= len(m.parts) {
		m.parts = append(m.parts, nil)
	}
	if m.parts[index] == nil {
		p := NewFileOutStream(filepath.Join(m.dir, partName(m.name, m.ext, index)))
		if err := p.Open(); err != nil {
			return nil, err
		}
		m.parts[index] = p
	}
	return m.parts[index], nil
}

func (m *MultiFileOutStream) CopyContent() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return nil, nil
	}
	var out []byte
	for i := range m.parts {
		p := NewFileOutStream(filepath.Join(m.dir, partName(m.name, m.ext, i)))
		data, err := os.ReadFile(p.path)
		if err != nil {
			return nil, arcerrors.Wrap(arcerrors.CodeIO, "stream: reading multi-stream part for copy_content", err)
		}
		out = append(out, data...)
	}
	return out, nil
}

func (m *MultiFileOutStream) Write(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	chunks := splitWrite(m.pos, int64(len(buf)), m.partSize)
	var written int64
	for _, ch := range chunks {
		part, err := m.ensurePart(ch.partIndex)
		if err != nil {
			return int(written), err
		}
		if _, err := part.Seek(ch.partOff, SeekStart); err != nil {
			return int(written), err
		}
		n, err := part.Write(buf[written : written+ch.length])
		written += int64(n)
		if err != nil {
			return int(written), err
		}
	}
	m.pos += written
	if m.pos > m.size {
		m.size = m.pos
	}
	return int(written), nil
}

func (m *MultiFileOutStream) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(m.pos, m.size, offset, whence)
	if err != nil {
		return 0, err
	}
	m.pos = np
	return np, nil
}

// SetSize truncates or extends the stream by deleting or creating parts
// (spec.md §4.4).
func (m *MultiFileOutStream) SetSize(newSize int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return errNotOpen()
	}
	if newSize < 0 {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: negative size")
	}

	lastIndex := 0
	if newSize > 0 {
		lastIndex = int((newSize - 1) / m.partSize)
	}
	for i := len(m.parts) - 1; i > lastIndex; i-- {
		if m.parts[i] != nil {
			_ = m.parts[i].Close()
			_ = m.parts[i].Erase(EraseNone)
		}
		m.parts = m.parts[:i]
	}
	if newSize > 0 {
		part, err := m.ensurePart(lastIndex)
		if err != nil {
			return err
		}
		lastPartSize := newSize - int64(lastIndex)*m.partSize
		if err := part.SetSize(lastPartSize); err != nil {
			return err
		}
	}
	m.size = newSize
	if m.pos > m.size {
		m.pos = m.size
	}
	return nil
}

// MultiMemoryOutStream is the in-memory analogue of MultiFileOutStream:
// same addressing scheme, each part an in-memory OutStream (spec.md §4.4
// "Multi (memory)" variant).
type MultiMemoryOutStream struct {
	mu       sync.Mutex
	partSize int64
	parts    []*MemoryOutStream
	pos      int64
	size     int64
	opened   bool
}

// NewMultiMemoryOutStream constructs a MultiMemoryOutStream with the given
// part size.
func NewMultiMemoryOutStream(partSize int64) *MultiMemoryOutStream {
	return &MultiMemoryOutStream{partSize: partSize}
}

func (m *MultiMemoryOutStream) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = true
	m.pos = 0
	return nil
}

func (m *MultiMemoryOutStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.parts {
		if p != nil {
			_ = p.Close()
		}
	}
	m.opened = false
	return nil
}

func (m *MultiMemoryOutStream) Opened() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

func (m *MultiMemoryOutStream) Erase(mode EraseMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return errAlreadyOpen()
	}
	m.parts = nil
	m.size = 0
	return nil
}

func (m *MultiMemoryOutStream) ensurePart(index int) (*MemoryOutStream, error) {
	if index >= MaxParts {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "stream: multi-stream part count exceeds 999")
	}
	for index >= len(m.parts) {
		m.parts = append(m.parts, nil)
	}
	if m.parts[index] == nil {
		p := NewMemoryOutStream()
		if err := p.Open(); err != nil {
			return nil, err
		}
		m.parts[index] = p
	}
	return m.parts[index], nil
}

func (m *MultiMemoryOutStream) CopyContent() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opened {
		return nil, nil
	}
	var out []byte
	for _, p := range m.parts {
		if p == nil {
			continue
		}
		data, err := p.CopyContent()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func (m *MultiMemoryOutStream) Write(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	chunks := splitWrite(m.pos, int64(len(buf)), m.partSize)
	var written int64
	for _, ch := range chunks {
		part, err := m.ensurePart(ch.partIndex)
		if err != nil {
			return int(written), err
		}
		if _, err := part.Seek(ch.partOff, SeekStart); err != nil {
			return int(written), err
		}
		n, err := part.Write(buf[written : written+ch.length])
		written += int64(n)
		if err != nil {
			return int(written), err
		}
	}
	m.pos += written
	if m.pos > m.size {
		m.size = m.pos
	}
	return int(written), nil
}

func (m *MultiMemoryOutStream) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return 0, errNotOpen()
	}
	np, err := resolveSeek(m.pos, m.size, offset, whence)
	if err != nil {
		return 0, err
	}
	m.pos = np
	return np, nil
}

func (m *MultiMemoryOutStream) SetSize(newSize int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened {
		return errNotOpen()
	}
	if newSize < 0 {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "stream: negative size")
	}

	lastIndex := 0
	if newSize > 0 {
		lastIndex = int((newSize - 1) / m.partSize)
	}
	if lastIndex < len(m.parts)-1 {
		m.parts = m.parts[:lastIndex+1]
	}
	if newSize > 0 {
		part, err := m.ensurePart(lastIndex)
		if err != nil {
			return err
		}
		lastPartSize := newSize - int64(lastIndex)*m.partSize
		if err := part.SetSize(lastPartSize); err != nil {
			return err
		}
	}
	m.size = newSize
	if m.pos > m.size {
		m.pos = m.size
	}
	return nil
}

// PartSizes returns the size of each part currently allocated, for tests
// that assert the "every part but the last is exactly P" property.
func (m *MultiFileOutStream) PartSizes() ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sizes := make([]int64, len(m.parts))
	for i := range m.parts {
		info, err := os.Stat(filepath.Join(m.dir, partName(m.name, m.ext, i)))
		if err != nil {
			return nil, arcerrors.Wrap(arcerrors.CodeIO, "stream: stat multi-stream part", err)
		}
		sizes[i] = info.Size()
	}
	return sizes, nil
}
