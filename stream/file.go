package stream

import (
	"io"
	"os"
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// FileInStream is a host-file-backed InStream, opened in binary read
// mode (spec.md §4.3 "File" variant).
type FileInStream struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	opened bool
}

// NewFileInStream returns an unopened FileInStream over path.
func NewFileInStream(path string) *FileInStream {
	return &FileInStream{path: path}
}

func (s *FileInStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: opening file for read", err)
	}
	s.file = f
	s.opened = true
	return nil
}

func (s *FileInStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.opened = false
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: closing file", err)
	}
	return nil
}

func (s *FileInStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *FileInStream) Erase(mode EraseMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return errAlreadyOpen()
	}
	if mode == EraseZero {
		if err := zeroFile(s.path); err != nil {
			return err
		}
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: removing file", err)
	}
	return nil
}

func zeroFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: stat before zero-erase", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: opening file for zero-erase", err)
	}
	defer f.Close()

	const chunk = 64 * 1024
	zeros := make([]byte, chunk)
	remaining := info.Size()
	for remaining > 0 {
		n := int64(chunk)
		if remaining < n {
			n = remaining
		}
		if _, err := f.Write(zeros[:n]); err != nil {
			return arcerrors.Wrap(arcerrors.CodeIO, "stream: zeroing file content", err)
		}
		remaining -= n
	}
	return nil
}

func (s *FileInStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	n, err := s.file.Read(buf)
	if err != nil && err != io.EOF {
		return n, arcerrors.Wrap(arcerrors.CodeIO, "stream: reading file", err)
	}
	return n, err
}

func (s *FileInStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	pos, err := s.file.Seek(offset, whence)
	if err != nil {
		return 0, arcerrors.Wrap(arcerrors.CodeIO, "stream: seeking file", err)
	}
	return pos, nil
}

func (s *FileInStream) Size() (int64, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// FileOutStream is a host-file-backed OutStream opened in
// binary truncate-and-write mode (spec.md §4.4 "File" variant).
type FileOutStream struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	opened bool
}

// NewFileOutStream returns an unopened FileOutStream over path.
func NewFileOutStream(path string) *FileOutStream {
	return &FileOutStream{path: path}
}

func (s *FileOutStream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: opening file for write", err)
	}
	s.file = f
	s.opened = true
	return nil
}

func (s *FileOutStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.opened = false
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: closing file", err)
	}
	return nil
}

func (s *FileOutStream) Opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *FileOutStream) Erase(mode EraseMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return errAlreadyOpen()
	}
	if mode == EraseZero {
		if err := zeroFile(s.path); err != nil {
			return err
		}
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: removing file", err)
	}
	return nil
}

// CopyContent reads the full file when closed; spec.md §4.4 requires it
// return empty while the stream is open.
func (s *FileOutStream) CopyContent() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return nil, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeIO, "stream: reading file for copy_content", err)
	}
	return data, nil
}

func (s *FileOutStream) Write(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	n, err := s.file.Write(buf)
	if err != nil {
		return n, arcerrors.Wrap(arcerrors.CodeIO, "stream: writing file", err)
	}
	return n, nil
}

func (s *FileOutStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return 0, errNotOpen()
	}
	pos, err := s.file.Seek(offset, whence)
	if err != nil {
		return 0, arcerrors.Wrap(arcerrors.CodeIO, "stream: seeking file", err)
	}
	return pos, nil
}

func (s *FileOutStream) SetSize(size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return errNotOpen()
	}
	if err := s.file.Truncate(size); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "stream: truncating file", err)
	}
	return nil
}
