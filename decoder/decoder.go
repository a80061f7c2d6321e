// Package decoder implements spec.md §4.7: opening a container, listing
// its items, testing integrity and extracting selected items to the
// filesystem or to caller-supplied streams.
//
// Grounded on github.com/nabbar/golib/archive/archive's Reader (open,
// list, extract-to-directory state machine) generalized to the three
// container kinds this engine supports, with the 7z path delegating to
// the real github.com/bodgit/sevenzip reader (see sevenzip.go) and the
// xz/tar paths built from github.com/ulikunitz/xz and archive/tar.
package decoder

import (
	"io"
	"sync"

	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/item"
	"github.com/go-arcsdk/arcsdk/path"
	"github.com/go-arcsdk/arcsdk/progress"
	"github.com/go-arcsdk/arcsdk/stream"
)

// State is the decoder's lifecycle position (spec.md §4.7: "Fresh →
// Opened → {Extracting|Testing|Idle} → Aborted/Closed").
type State int

const (
	StateFresh State = iota
	StateOpened
	StateExtracting
	StateTesting
	StateIdle
	StateAborted
	StateClosed
)

// backend is the per-container-kind implementation Open/extractItem/Test
// delegate to. Each backend owns parsing its own header structure and
// knows how to stream one item's plaintext bytes out.
type backend interface {
	open() ([]item.Item, error)
	openItemReader(idx int) (io.ReadCloser, error)
	close() error
}

// Decoder drives one container open/extract/test session over a single
// InStream, per spec.md §4.7.
type Decoder struct {
	mu sync.Mutex

	source        stream.InStream
	containerKind codec.ContainerID

	passwords *progress.PasswordSource
	reporter  *progress.Reporter
	canceller *progress.Canceller

	state State
	items *item.ItemArray
	b     backend
}

// New binds a Decoder to source and containerKind. The source is not
// opened until Open is called.
func New(source stream.InStream, containerKind codec.ContainerID) *Decoder {
	codec.Init()
	return &Decoder{
		source:        source,
		containerKind: containerKind,
		passwords:     progress.NewPasswordSource(),
		reporter:      progress.NewReporter(),
		canceller:     progress.NewCanceller(),
		state:         StateFresh,
		items:         item.NewItemArray(),
	}
}

// SetPassword arms a preset password for opening/extracting encrypted
// content. Valid only in Fresh or Idle (spec.md §4.7).
func (d *Decoder) SetPassword(password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateFresh && d.state != StateIdle {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: set_password valid only in fresh or idle state")
	}
	d.passwords.SetPreset(password)
	return nil
}

// SetProgressDelegate installs or clears (delegate == nil) the progress
// callback. Valid only in Fresh or Idle.
func (d *Decoder) SetProgressDelegate(delegate progress.Delegate) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateFresh && d.state != StateIdle {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: set_progress_delegate valid only in fresh or idle state")
	}
	d.reporter.Set(delegate)
	return nil
}

// Abort sets the decoder's cancellation flag; safe to call from another
// goroutine at any time. Calls that poll the flag between items return
// false once it is set; Open does not check it.
func (d *Decoder) Abort() {
	d.canceller.Abort()
}

// Open parses the container's headers and populates the item list.
// Returns false when the container is structurally invalid; returns an
// error for I/O or codec faults (spec.md §4.7).
func (d *Decoder) Open() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateFresh {
		return false, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: open valid only from fresh state")
	}
	if err := d.source.Open(); err != nil {
		return false, err
	}

	codec.SetAESPasswordSource(func() (string, error) { return d.passwords.Resolve() })

	b, err := newBackend(d.containerKind, d.source, d.passwords)
	if err != nil {
		return false, err
	}

	items, err := b.open()
	if err != nil {
		if arcerrors.IsCodeError(err, arcerrors.CodePassword) {
			return false, err
		}
		return false, err
	}
	if items == nil {
		return false, nil
	}

	d.b = b
	for i := range items {
		items[i].Index = uint32(i)
		d.items.Push(items[i])
	}
	d.state = StateOpened
	return true, nil
}

// Count returns the number of items (0 before Open succeeds).
func (d *Decoder) Count() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint32(d.items.Count())
}

// ItemAt returns the item at position i, or an out-of-range error.
func (d *Decoder) ItemAt(i int) (item.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	it, ok := d.items.At(i)
	if !ok {
		return item.Item{}, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: item_at index out of range")
	}
	return it, nil
}

// Items returns the decoder's item list, empty before Open.
func (d *Decoder) Items() *item.ItemArray {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.items
}

func (d *Decoder) beginExtracting() error {
	if d.state != StateOpened && d.state != StateIdle {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: extract/test valid only after open")
	}
	d.state = StateExtracting
	return nil
}

// ExtractAll extracts every item under dirPath, reproducing relative
// paths unless withFullPaths is false, in which case every item is
// flattened directly into dirPath.
func (d *Decoder) ExtractAll(dirPath string, withFullPaths bool) (bool, error) {
	d.mu.Lock()
	items := d.items.Items()
	if err := d.beginExtracting(); err != nil {
		d.mu.Unlock()
		return false, err
	}
	d.mu.Unlock()
	return d.extractItemsToDir(items, dirPath, withFullPaths)
}

// ExtractItems extracts the supplied subset of items under dirPath.
func (d *Decoder) ExtractItems(items []item.Item, dirPath string, withFullPaths bool) (bool, error) {
	d.mu.Lock()
	if err := d.beginExtracting(); err != nil {
		d.mu.Unlock()
		return false, err
	}
	d.mu.Unlock()
	return d.extractItemsToDir(items, dirPath, withFullPaths)
}

func (d *Decoder) extractItemsToDir(items []item.Item, dirPath string, withFullPaths bool) (ok bool, err error) {
	defer d.finishOperation(&ok, &err)

	base := path.New(dirPath)
	total := len(items)
	for n, it := range items {
		if d.canceller.Cancelled() {
			return false, nil
		}
		dest := base
		if withFullPaths {
			dest = base.Appending(it.Path)
		} else {
			dest = base.Appending(lastPathComponent(it.Path))
		}

		if it.IsDir {
			if mkErr := dest.CreateDir(true); mkErr != nil {
				return false, mkErr
			}
			continue
		}
		if parentErr := dest.RemovingLastComponent().CreateDir(true); parentErr != nil {
			return false, parentErr
		}

		out := stream.NewFileOutStream(dest.String())
		if wErr := d.extractOneToOutStream(it, out); wErr != nil {
			return false, wErr
		}
		if tErr := dest.ApplyFileTimestamp(it.AccessTime, it.ModTime); tErr != nil {
			return false, tErr
		}

		d.reporter.Report(it.Path, float64(n+1)/float64(max(total, 1)))
	}
	return true, nil
}

// ExtractToStreams writes each item's plaintext bytes to the matching
// OutStream in pairs; pairs need not cover every item.
func (d *Decoder) ExtractToStreams(pairs *item.ItemOutStreamArray) (ok bool, err error) {
	d.mu.Lock()
	if bErr := d.beginExtracting(); bErr != nil {
		d.mu.Unlock()
		return false, bErr
	}
	d.mu.Unlock()
	defer d.finishOperation(&ok, &err)

	all := pairs.Pairs()
	for n, p := range all {
		if d.canceller.Cancelled() {
			return false, nil
		}
		out, isOut := p.Second.(stream.OutStream)
		if !isOut {
			return false, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: item_out_stream_array entry is not an OutStream")
		}
		if wErr := d.extractOneToOutStream(p.First, out); wErr != nil {
			return false, wErr
		}
		d.reporter.Report(p.First.Path, float64(n+1)/float64(max(len(all), 1)))
	}
	return true, nil
}

func (d *Decoder) extractOneToOutStream(it item.Item, out stream.OutStream) error {
	d.mu.Lock()
	b := d.b
	d.mu.Unlock()

	rc, err := b.openItemReader(int(it.Index))
	if err != nil {
		return err
	}
	defer rc.Close()

	if !out.Opened() {
		if err := out.Open(); err != nil {
			return err
		}
		defer out.Close()
	}

	gotCRC := uint32(0)
	buf := make([]byte, 64*1024)
	hasher := newCRCWriter()
	for {
		n, rErr := rc.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			if _, wErr := out.Write(buf[:n]); wErr != nil {
				return wErr
			}
		}
		if rErr == io.EOF {
			break
		}
		if rErr != nil {
			return arcerrors.Wrap(arcerrors.CodeIO, "decoder: reading item content", rErr)
		}
	}
	gotCRC = hasher.Sum()
	if it.CRC32 != 0 && gotCRC != it.CRC32 {
		return arcerrors.New(arcerrors.CodeIO, "decoder: CRC-32 mismatch after extraction")
	}
	return nil
}

// Test drives every item to a discard sink and reports whether every
// one passed its integrity check.
func (d *Decoder) Test() (ok bool, err error) {
	d.mu.Lock()
	if bErr := d.beginStateTesting(); bErr != nil {
		d.mu.Unlock()
		return false, bErr
	}
	items := d.items.Items()
	d.mu.Unlock()
	defer d.finishOperation(&ok, &err)

	for _, it := range items {
		if d.canceller.Cancelled() {
			return false, nil
		}
		if it.IsDir {
			continue
		}
		sink := stream.NewTestOutStream()
		if wErr := d.extractOneToOutStream(it, sink); wErr != nil {
			return false, nil
		}
	}
	return true, nil
}

func (d *Decoder) beginStateTesting() error {
	if d.state != StateOpened && d.state != StateIdle {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: extract/test valid only after open")
	}
	d.state = StateTesting
	return nil
}

func (d *Decoder) finishOperation(ok *bool, err *error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.canceller.Cancelled() {
		d.state = StateAborted
		*ok = false
		*err = nil
		return
	}
	if *err != nil {
		d.state = StateIdle
		return
	}
	d.state = StateIdle
}

// Close releases the underlying source stream and any container backend
// state, transitioning to Closed.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.b != nil {
		_ = d.b.close()
	}
	d.state = StateClosed
	return d.source.Close()
}

func lastPathComponent(p string) string {
	return path.New(p).LastComponent()
}
