//go:build !mobile

package settings

import "github.com/go-arcsdk/arcsdk/size"

// Desktop/server defaults: 1 MiB stream buffers, 4 MiB decoder write buffer.
const (
	defaultStreamRead   = 1 * size.SizeMega
	defaultStreamWrite  = 1 * size.SizeMega
	defaultDecoderRead  = 1 * size.SizeMega
	defaultDecoderWrite = 4 * size.SizeMega
)
