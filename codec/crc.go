package codec

import (
	"hash/crc32"
	"hash/crc64"
)

// CRC-32/CRC-64 tables populated once by Init (spec.md §4.6). stdlib's
// hash/crc32 and hash/crc64 already memoize their own tables; this
// package additionally caches the *crc32.Table/*crc64.Table handles so
// item CRC computation (used by the decoder/encoder for the item
// integrity-check invariant) never re-derives them.
var (
	crc32Table *crc32.Table
	crc64Table *crc64.Table
)

func initCRCTables() {
	crcOnce.Do(func() {
		crc32Table = crc32.IEEETable
		crc64Table = crc64.MakeTable(crc64.ISO)
	})
}

// CRC32 computes the IEEE CRC-32 of data, matching the checksum spec.md
// §3 requires every Item to carry.
func CRC32(data []byte) uint32 {
	Init()
	return crc32.Checksum(data, crc32Table)
}

// CRC64 computes the ISO CRC-64 of data. No reader or writer in this
// module calls it.
func CRC64(data []byte) uint64 {
	Init()
	return crc64.Checksum(data, crc64Table)
}
