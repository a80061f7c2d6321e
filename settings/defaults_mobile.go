//go:build mobile

package settings

import "github.com/go-arcsdk/arcsdk/size"

// Mobile defaults: 64 KiB stream buffers, 256 KiB decoder write buffer.
const (
	defaultStreamRead   = 64 * size.SizeKilo
	defaultStreamWrite  = 64 * size.SizeKilo
	defaultDecoderRead  = 64 * size.SizeKilo
	defaultDecoderWrite = 256 * size.SizeKilo
)
