// Package size provides a byte-count type used for the engine's global
// buffer-size tunables (spec.md §4.11/§6). Grounded on the constant naming
// of github.com/nabbar/golib/size (SizeUnit/SizeKilo/SizeMega/...), trimmed
// to the handful of operations the settings package actually needs.
package size

import "strconv"

// Size is a byte count.
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = SizeUnit << 10
	SizeMega Size = SizeKilo << 10
	SizeGiga Size = SizeMega << 10
	SizeTera Size = SizeGiga << 10
)

// Int64 returns the size as an int64, saturating at math.MaxInt64.
func (s Size) Int64() int64 {
	if s > Size(1<<63-1) {
		return 1<<63 - 1
	}
	return int64(s)
}

// Uint64 returns the size as a uint64.
func (s Size) Uint64() uint64 {
	return uint64(s)
}

func (s Size) String() string {
	return strconv.FormatUint(uint64(s), 10) + "B"
}

// IsZero reports whether the size is the zero value.
func (s Size) IsZero() bool {
	return s == SizeNul
}
