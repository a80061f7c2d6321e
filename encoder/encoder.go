// Package encoder implements spec.md §4.8: building a container from
// added filesystem entries and streams, running them through a chosen
// codec, and writing the result to an OutStream or multi-volume
// OutStream.
//
// Grounded on github.com/nabbar/golib/archive/archive's Writer (add,
// open, compress state machine; directory-recursion walk) generalized
// to the three container kinds and three add() overloads spec.md names.
package encoder

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/progress"
	"github.com/go-arcsdk/arcsdk/stream"
)

// State is the encoder's lifecycle position, mirroring the decoder's
// Fresh → Opened → {Compressing} → Idle/Aborted/Closed shape.
type State int

const (
	StateFresh State = iota
	StateOpened
	StateCompressing
	StateIdle
	StateAborted
	StateClosed
)

// addedEntry is one item queued for compression: either sourced from a
// filesystem path or from a caller-supplied InStream.
type addedEntry struct {
	archiveName string
	fsPath      string
	in          stream.InStream
	isDir       bool
	modTime     int64
}

// backend writes the queued entries to dest in its own container format.
type backend interface {
	write(dest stream.OutStream, entries []addedEntry, opts writeOptions) error
}

// writeOptions carries the encoder's advisory 7z-only flags and the
// method/level/password settings shared by every backend.
type writeOptions struct {
	method            codec.ID
	level             int
	password          string
	numCyclesPower    byte
	solid             bool
	headerCompression bool
	headerEncryption  bool
	contentEncryption bool
}

// Encoder drives one container-build session, per spec.md §4.8.
type Encoder struct {
	mu sync.Mutex

	dest          stream.OutStream
	containerKind codec.ContainerID

	passwords *progress.PasswordSource
	reporter  *progress.Reporter
	canceller *progress.Canceller

	state   State
	entries []addedEntry
	opts    writeOptions
	b       backend
}

// New binds an Encoder to dest, containerKind and method.
func New(dest stream.OutStream, containerKind codec.ContainerID, method codec.ID) *Encoder {
	codec.Init()
	return &Encoder{
		dest:          dest,
		containerKind: containerKind,
		passwords:     progress.NewPasswordSource(),
		reporter:      progress.NewReporter(),
		canceller:     progress.NewCanceller(),
		state:         StateFresh,
		opts:          writeOptions{method: method, level: 6, numCyclesPower: 19, contentEncryption: true},
	}
}

// SetPassword arms content encryption (7z only; ignored outside 7z per
// spec.md §4.8) unless SetContentEncryption(false) turns it off. Headers
// are always written unencrypted.
func (e *Encoder) SetPassword(password string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateFresh {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: set_password valid only before open")
	}
	e.passwords.SetPreset(password)
	e.opts.password = password
	return nil
}

// SetProgressDelegate installs or clears the progress callback.
func (e *Encoder) SetProgressDelegate(delegate progress.Delegate) {
	e.reporter.Set(delegate)
}

// SetCompressionLevel records a level in 0..9 and rejects any other
// value. No backend reads the recorded level: every backend compresses
// with its codec's default dictionary and word sizes.
func (e *Encoder) SetCompressionLevel(level int) error {
	if level < 0 || level > 9 {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: compression level must be 0..9")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.level = level
	return nil
}

// SetSolid, SetHeaderCompression, SetHeaderEncryption and
// SetContentEncryption are advisory 7z-only flags; ignored by the xz and
// tar backends (spec.md §4.8).
func (e *Encoder) SetSolid(v bool)             { e.opts.solid = v }
func (e *Encoder) SetHeaderCompression(v bool) { e.opts.headerCompression = v }
func (e *Encoder) SetHeaderEncryption(v bool)  { e.opts.headerEncryption = v }
func (e *Encoder) SetContentEncryption(v bool) { e.opts.contentEncryption = v }

// Add queues the filesystem entry at fsPath, recursing into directories;
// each file or directory under it becomes one item named by its path
// relative to fsPath's parent.
func (e *Encoder) Add(fsPath string) error {
	return e.AddNamed(fsPath, filepath.Base(fsPath))
}

// AddNamed queues fsPath (recursing into directories) under archiveName
// instead of its filesystem base name.
func (e *Encoder) AddNamed(fsPath, archiveName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateFresh {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: add valid only before open")
	}

	info, err := os.Lstat(fsPath)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "encoder: stat add path", err)
	}
	if !info.IsDir() {
		e.entries = append(e.entries, addedEntry{archiveName: archiveName, fsPath: fsPath, modTime: info.ModTime().UnixNano()})
		return nil
	}

	e.entries = append(e.entries, addedEntry{archiveName: archiveName, isDir: true, modTime: info.ModTime().UnixNano()})
	return filepath.WalkDir(fsPath, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == fsPath {
			return nil
		}
		rel, relErr := filepath.Rel(fsPath, p)
		if relErr != nil {
			return relErr
		}
		name := filepath.ToSlash(filepath.Join(archiveName, rel))
		fi, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		e.entries = append(e.entries, addedEntry{archiveName: name, fsPath: p, isDir: d.IsDir(), modTime: fi.ModTime().UnixNano()})
		return nil
	})
}

// AddStream queues a single item whose bytes come from in, stored under
// archiveName.
func (e *Encoder) AddStream(in stream.InStream, archiveName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateFresh {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: add valid only before open")
	}
	e.entries = append(e.entries, addedEntry{archiveName: archiveName, in: in})
	return nil
}

// Abort cancels an in-flight compress call.
func (e *Encoder) Abort() { e.canceller.Abort() }

// Open validates configuration and opens the destination stream.
func (e *Encoder) Open() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateFresh {
		return false, arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: open valid only from fresh state")
	}
	b, err := newBackend(e.containerKind)
	if err != nil {
		return false, err
	}
	if err := e.dest.Open(); err != nil {
		return false, err
	}
	e.b = b
	e.state = StateOpened
	return true, nil
}

// Compress writes the container. Returns false on graceful abort.
func (e *Encoder) Compress() (ok bool, err error) {
	e.mu.Lock()
	if e.state != StateOpened {
		e.mu.Unlock()
		return false, arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: compress valid only after open")
	}
	e.state = StateCompressing
	entries := e.entries
	opts := e.opts
	b := e.b
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		if e.canceller.Cancelled() {
			e.state = StateAborted
			ok, err = false, nil
		} else if err != nil {
			e.state = StateIdle
		} else {
			e.state = StateIdle
		}
		e.mu.Unlock()
	}()

	if e.canceller.Cancelled() {
		return false, nil
	}
	if wErr := b.write(e.dest, entries, opts); wErr != nil {
		return false, wErr
	}
	return true, nil
}

// Close closes the destination stream, transitioning to Closed.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateClosed
	return e.dest.Close()
}

func readAllEntry(a addedEntry) ([]byte, error) {
	if a.in != nil {
		if !a.in.Opened() {
			if err := a.in.Open(); err != nil {
				return nil, err
			}
			defer a.in.Close()
		}
		return io.ReadAll(asReader(a.in))
	}
	data, err := os.ReadFile(a.fsPath)
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeIO, "encoder: reading source file", err)
	}
	return data, nil
}

func asReader(s stream.InStream) io.Reader {
	return readerFunc(s.Read)
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
