package decoder

import "hash/crc32"

// crcWriter accumulates a CRC-32/IEEE checksum as bytes are written to
// it, so extraction can verify an item's checksum without buffering its
// whole content in memory.
type crcWriter struct {
	h uint32
}

func newCRCWriter() *crcWriter { return &crcWriter{} }

func (c *crcWriter) Write(p []byte) {
	c.h = crc32.Update(c.h, crc32.IEEETable, p)
}

func (c *crcWriter) Sum() uint32 { return c.h }
