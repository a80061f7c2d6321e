// Package sevenzipfmt writes the 7z container's binary header structure:
// signature header, packed coder streams, and the "next header" property
// tree (pack info / folder-coder descriptors / substream sizes+CRCs /
// file names and timestamps). Decoding an existing 7z archive is left to
// the real github.com/bodgit/sevenzip reader (see decoder/sevenzip.go);
// this package only needs to write a structure that reader's data model
// can represent, so its folder/coder/bindPair/packInfo shapes mirror
// that package's (unexported) internal types.
//
// Grounded on other_examples/0219355d_bodgit-sevenzip__struct.go.go for
// the folder/coder/bindPair/packInfo/streamsInfo/filesInfo field layout,
// and on the 7z format's documented property-id table for kHeader,
// kMainStreamsInfo, kFolder, kCodersUnpackSize, etc.
package sevenzipfmt

// Property ids from the 7z "next header" property tree.
const (
	idEnd                = 0x00
	idHeader             = 0x01
	idMainStreamsInfo    = 0x04
	idFilesInfo          = 0x05
	idPackInfo           = 0x06
	idUnpackInfo         = 0x07
	idSubStreamsInfo     = 0x08
	idSize               = 0x09
	idCRC                = 0x0A
	idFolder             = 0x0B
	idCodersUnpackSize   = 0x0C
	idNumUnpackStream    = 0x0D
	idEmptyStream        = 0x0E
	idEmptyFile          = 0x0F
	idName               = 0x11
	idCTime              = 0x12
	idATime              = 0x13
	idMTime              = 0x14
	idWinAttributes      = 0x15
)

// signature is the fixed 6-byte 7z magic.
var signature = [6]byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}

// signatureHeaderSize is the fixed size of the leading signature header
// (6-byte signature + 2-byte version + 4-byte CRC + 20-byte start
// header), which the writer reserves up front and patches once the next
// header's offset/size/CRC are known.
const signatureHeaderSize = 32

// putNumber encodes n using 7z's variable-length integer scheme: the
// first byte's high bits indicate how many extra little-endian bytes
// follow, and its low bits hold the top bits of the value when it fits.
func putNumber(n uint64) []byte {
	var firstByte byte
	var mask byte = 0x80
	var buf []byte

	for i := 0; i < 8; i++ {
		if n < uint64(1)<<(uint(7+i*8)) {
			firstByte |= byte(n >> uint(i*8))
			out := make([]byte, 0, i+1)
			out = append(out, firstByte)
			out = append(out, buf...)
			return out
		}
		buf = append(buf, byte(n>>uint(i*8)))
		firstByte |= mask
		mask >>= 1
	}

	out := make([]byte, 0, 9)
	out = append(out, 0xFF)
	out = append(out, buf...)
	return out
}
