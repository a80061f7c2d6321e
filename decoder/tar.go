package decoder

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"

	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/item"
	"github.com/go-arcsdk/arcsdk/stream"
)

// tarBackend decodes ustar containers via the standard library's
// archive/tar — the spec's domain dependencies are reused components
// for codecs and containers, and tar has no third-party codec dimension
// to wire (spec.md §1's scope: reused container parsers, engine logic
// only). Content is buffered per entry since tar.Reader only supports
// forward sequential access; item content is read once at open time and
// held in memory for the backend's lifetime.
type tarBackend struct {
	source  stream.InStream
	entries [][]byte
}

func newTarBackend(source stream.InStream) (*tarBackend, error) {
	return &tarBackend{source: source}, nil
}

func (b *tarBackend) open() ([]item.Item, error) {
	tr := tar.NewReader(asReader(b.source))
	var items []item.Item

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, arcerrors.Wrap(arcerrors.CodeIO, "decoder: reading tar header", err)
		}

		var content []byte
		if hdr.Typeflag == tar.TypeReg {
			content, err = io.ReadAll(tr)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeIO, "decoder: reading tar entry", err)
			}
		}

		it, err := item.New(hdr.Name)
		if err != nil {
			return nil, err
		}
		it.UnpackedSize = uint64(len(content))
		it.ModTime = hdr.ModTime
		it.AccessTime = hdr.AccessTime
		it.CreationTime = hdr.ChangeTime
		it.CRC32 = codec.CRC32(content)
		it.IsDir = hdr.Typeflag == tar.TypeDir || hdr.FileInfo().Mode()&fs.ModeDir != 0

		items = append(items, it)
		b.entries = append(b.entries, content)
	}
	return items, nil
}

func (b *tarBackend) openItemReader(idx int) (io.ReadCloser, error) {
	if idx < 0 || idx >= len(b.entries) {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: item index out of range")
	}
	return io.NopCloser(bytes.NewReader(b.entries[idx])), nil
}

func (b *tarBackend) close() error { return nil }
