package codec

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// LZMA/LZMA2 coder properties follow the 7z wire format: a single byte
// encoding (pb*5+lp)*9+lc, followed by a 4-byte little-endian dictionary
// size for LZMA1 (LZMA2 carries only the one properties byte, encoding
// the dictionary size in a different, packed form that
// lzma2DictCapFromProperty turns into the DictCap handed to
// Reader2Config/Writer2Config).
func decodeLZMA1Properties(props []byte) (lzma.Properties, int, error) {
	if len(props) < 5 {
		return lzma.Properties{}, 0, arcerrors.New(arcerrors.CodeInvalidArguments, "codec: LZMA properties must be 5 bytes")
	}
	p, err := lzma.NewProperties(props[0])
	if err != nil {
		return lzma.Properties{}, 0, arcerrors.Wrap(arcerrors.CodeInvalidArguments, "codec: decoding LZMA properties byte", err)
	}
	dictCap := int(props[1]) | int(props[2])<<8 | int(props[3])<<16 | int(props[4])<<24
	return p, dictCap, nil
}

func registerLZMACodec() {
	register(Registration{
		ID:   IDLZMA,
		Name: "LZMA",
		Decoder: func(r io.Reader, props []byte) (io.Reader, error) {
			p, dictCap, err := decodeLZMA1Properties(props)
			if err != nil {
				return nil, err
			}
			cfg := lzma.ReaderConfig{
				DictCap:    dictCap,
				Properties: &p,
			}
			rd, err := cfg.NewReader(r)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening LZMA reader", err)
			}
			return rd, nil
		},
		Encoder: func(w io.WriteCloser, props []byte) (io.WriteCloser, error) {
			p, dictCap, err := decodeLZMA1Properties(props)
			if err != nil {
				return nil, err
			}
			cfg := lzma.WriterConfig{
				DictCap:    dictCap,
				Properties: &p,
			}
			wr, err := cfg.NewWriter(w)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening LZMA writer", err)
			}
			return &lzmaWriteCloser{w: wr, under: w}, nil
		},
	})
}

func registerLZMA2Codec() {
	register(Registration{
		ID:   IDLZMA2,
		Name: "LZMA2",
		Decoder: func(r io.Reader, props []byte) (io.Reader, error) {
			dictCap := 1 << 24
			if len(props) >= 1 {
				dictCap = lzma2DictCapFromProperty(props[0])
			}
			cfg := lzma.Reader2Config{DictCap: dictCap}
			rd, err := cfg.NewReader2(r)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening LZMA2 reader", err)
			}
			return rd, nil
		},
		Encoder: func(w io.WriteCloser, props []byte) (io.WriteCloser, error) {
			dictCap := 1 << 24
			if len(props) >= 1 {
				dictCap = lzma2DictCapFromProperty(props[0])
			}
			cfg := lzma.Writer2Config{DictCap: dictCap}
			wr, err := cfg.NewWriter2(w)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening LZMA2 writer", err)
			}
			return &lzma2WriteCloser{w: wr, under: w}, nil
		},
	})
}

// lzma2DictCapFromProperty decodes the single LZMA2 dictionary-size
// property byte per the 7z/xz spec: bit 0 picks a mantissa of 2 or 3 and
// b/2 sets the exponent, giving dictCap = (2 | (b&1)) << (b/2 + 11) for
// b > 0 (values above 40 are treated as 40), and 1<<12 for b == 0.
func lzma2DictCapFromProperty(b byte) int {
	if b == 0 {
		return 1 << 12
	}
	if b > 40 {
		b = 40
	}
	mantissa := uint(2 + (b & 1))
	shift := uint(b)/2 + 11
	return int(mantissa) << shift
}

type lzmaWriteCloser struct {
	w     *lzma.Writer
	under io.WriteCloser
}

func (c *lzmaWriteCloser) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *lzmaWriteCloser) Close() error {
	if err := c.w.Close(); err != nil {
		return arcerrors.Wrap(arcerrors.CodeInternal, "codec: closing LZMA writer", err)
	}
	return nil
}

type lzma2WriteCloser struct {
	w     *lzma.Writer2
	under io.WriteCloser
}

func (c *lzma2WriteCloser) Write(p []byte) (int, error) { return c.w.Write(p) }

func (c *lzma2WriteCloser) Close() error {
	if err := c.w.Close(); err != nil {
		return arcerrors.Wrap(arcerrors.CodeInternal, "codec: closing LZMA2 writer", err)
	}
	return nil
}

// EncodeLZMA2Buffer is a convenience used by internal/sevenzipfmt for each
// entry's LZMA2 folder: compress the whole buffer with default LZMA2
// settings and return the compressed bytes plus the one properties byte.
func EncodeLZMA2Buffer(data []byte) (compressed []byte, propsByte byte, err error) {
	var buf bytes.Buffer
	cfg := lzma.Writer2Config{}
	wr, werr := cfg.NewWriter2(&buf)
	if werr != nil {
		return nil, 0, arcerrors.Wrap(arcerrors.CodeInternal, "codec: opening LZMA2 writer", werr)
	}
	if _, werr = wr.Write(data); werr != nil {
		return nil, 0, arcerrors.Wrap(arcerrors.CodeInternal, "codec: writing LZMA2 stream", werr)
	}
	if werr = wr.Close(); werr != nil {
		return nil, 0, arcerrors.Wrap(arcerrors.CodeInternal, "codec: closing LZMA2 writer", werr)
	}
	return buf.Bytes(), 0x1b, nil // default dictionary-size property (48 MiB)
}
