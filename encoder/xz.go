package encoder

import (
	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/stream"
)

// xzBackend writes the xz container, which carries exactly one
// compressed stream (spec.md scenario 1's xz round-trip test adds a
// single source).
type xzBackend struct{}

func (b *xzBackend) write(dest stream.OutStream, entries []addedEntry, opts writeOptions) error {
	nonDir := 0
	var only addedEntry
	for _, a := range entries {
		if a.isDir {
			continue
		}
		nonDir++
		only = a
	}
	if nonDir != 1 {
		return arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: xz container accepts exactly one item")
	}

	data, err := readAllEntry(only)
	if err != nil {
		return err
	}

	w, err := codec.NewXZWriter(dest)
	if err != nil {
		return arcerrors.Wrap(arcerrors.CodeInternal, "encoder: opening xz writer", err)
	}
	if _, err := w.Write(data); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "encoder: writing xz stream", err)
	}
	if err := w.Close(); err != nil {
		return arcerrors.Wrap(arcerrors.CodeInternal, "encoder: closing xz writer", err)
	}
	return nil
}
