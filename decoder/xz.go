package decoder

import (
	"bytes"
	"io"

	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/item"
	"github.com/go-arcsdk/arcsdk/stream"
)

// xzBackend decodes the xz container, which carries exactly one
// compressed stream and no filename metadata (spec.md's scenario 1
// treats the whole archive as a single item, named from whatever the
// caller records separately — xz itself has nothing to name it with).
type xzBackend struct {
	source  stream.InStream
	content []byte
}

func newXZBackend(source stream.InStream) (*xzBackend, error) {
	return &xzBackend{source: source}, nil
}

func (b *xzBackend) open() ([]item.Item, error) {
	raw, err := io.ReadAll(asReader(b.source))
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeIO, "decoder: reading xz stream", err)
	}
	r, err := codec.OpenXZReader(bytes.NewReader(raw))
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "decoder: opening xz stream", err)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "decoder: decompressing xz stream", err)
	}
	b.content = content

	it, err := item.New("stream")
	if err != nil {
		return nil, err
	}
	it.UnpackedSize = uint64(len(content))
	it.PackedSize = uint64(len(raw))
	it.CRC32 = codec.CRC32(content)
	return []item.Item{it}, nil
}

func (b *xzBackend) openItemReader(idx int) (io.ReadCloser, error) {
	if idx != 0 {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: xz container has exactly one item")
	}
	return io.NopCloser(bytes.NewReader(b.content)), nil
}

func (b *xzBackend) close() error { return nil }

// asReader adapts an InStream's Read method (the only part io.ReadAll
// needs) without requiring a Close call, since the caller owns the
// InStream's lifecycle.
func asReader(s stream.InStream) io.Reader {
	return readerFunc(s.Read)
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
