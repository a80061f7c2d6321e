// Package codec implements spec.md §4.6's codec registry & one-time
// init: a process-wide, idempotent initializer that caches the CRC-32 and
// CRC-64 tables (AES needs no table setup here; crypto/aes handles its
// own) and registers every codec (BCJ, BCJ2, Copy,
// LZMA, LZMA2, PPMd, 7z-AES, AES-256-CBC) and container (7z, xz, tar)
// under a numeric id, binding each to decoder and (optionally) encoder
// constructors.
//
// Grounded on github.com/nabbar/golib/archive/compress's Algorithm enum
// and registry (types.go/interface.go/engine.go: a numeric/string-keyed
// algorithm identifier bound to compress/decompress constructors), scaled
// up from the teacher's half-dozen general-purpose algorithms to the
// archive-specific codec and container ids spec.md names.
package codec

import (
	"io"
	"sync"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// ID is a numeric codec identifier (spec.md §4.6: "static catalog keyed
// by numeric codec id").
type ID uint16

const (
	IDCopy ID = iota + 1
	IDLZMA
	IDLZMA2
	IDPPMd
	IDBCJ
	IDBCJ2
	IDAES256SHA256 // 7z-AES: AES-256-CBC keyed via the 7z SHA-256 KDF
	IDAESCBC       // plain AES-256-CBC, key supplied directly
	IDLZ4          // generic fast codec, not a standard 7z method id
	IDBzip2
	IDSnappy
	IDBrotli
	IDDeflate
)

func (id ID) String() string {
	switch id {
	case IDCopy:
		return "Copy"
	case IDLZMA:
		return "LZMA"
	case IDLZMA2:
		return "LZMA2"
	case IDPPMd:
		return "PPMd"
	case IDBCJ:
		return "BCJ"
	case IDBCJ2:
		return "BCJ2"
	case IDAES256SHA256:
		return "7z-AES"
	case IDAESCBC:
		return "AES-256-CBC"
	case IDLZ4:
		return "LZ4"
	case IDBzip2:
		return "Bzip2"
	case IDSnappy:
		return "Snappy"
	case IDBrotli:
		return "Brotli"
	case IDDeflate:
		return "Deflate"
	default:
		return "unknown"
	}
}

// NewDecodeReader wraps r, applying this codec's decoding transform.
// props carries the codec-specific property bytes (e.g. an LZMA dict
// size/lc/lp/pb byte, or an AES salt+IV+cycles blob).
type NewDecodeReader func(r io.Reader, props []byte) (io.Reader, error)

// NewEncodeWriter wraps w, applying this codec's encoding transform. It
// is nil for codecs spec.md §4.6 registers as decode-only.
type NewEncodeWriter func(w io.WriteCloser, props []byte) (io.WriteCloser, error)

// Registration binds one codec id to its constructors.
type Registration struct {
	ID       ID
	Name     string
	Decoder  NewDecodeReader
	Encoder  NewEncodeWriter // nil if this codec cannot encode
}

// ErrCodecUnavailable is returned by a registered-but-unimplemented
// codec's constructors (PPMd, BCJ, BCJ2 — see DESIGN.md).
func ErrCodecUnavailable(name string) error {
	return arcerrors.New(arcerrors.CodeInvalidArguments, "codec: "+name+" is registered but unavailable in this build")
}

var (
	initOnce sync.Once
	mu       sync.RWMutex
	registry = map[ID]Registration{}

	crcOnce sync.Once
)

// Init performs the process-wide, idempotent registration of every codec
// and container id (spec.md §4.6). It is safe to call from multiple
// goroutines and multiple times; only the first call has effect.
func Init() {
	initOnce.Do(func() {
		initCRCTables()
		registerBuiltinCodecs()
		registerBuiltinContainers()
	})
}

func register(r Registration) {
	mu.Lock()
	defer mu.Unlock()
	registry[r.ID] = r
}

// Lookup returns the registration for id. Init must have been called
// first (the decoder/encoder constructors call it on construction).
func Lookup(id ID) (Registration, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[id]
	return r, ok
}
