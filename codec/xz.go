package codec

import (
	"io"

	"github.com/ulikunitz/xz"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// OpenXZReader opens the xz container format itself (spec.md's
// ContainerXZ): framing, CRC validation and LZMA2 decoding are handled
// internally by the ulikunitz/xz package, so the decoder package reaches
// for this directly rather than going through the per-coder Registration
// dispatch used for 7z folder coders.
func OpenXZReader(r io.Reader) (io.Reader, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening xz container", err)
	}
	return zr, nil
}

// NewXZWriter opens an xz container writer at the default compression
// configuration.
func NewXZWriter(w io.Writer) (*xz.Writer, error) {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening xz container writer", err)
	}
	return zw, nil
}
