// Package textstr implements the String value type of spec.md §4.12: a
// UTF-8 string carrying an additional UTF-16 ("wide") view and a
// length_max_count cap, matching the original engine's need to hand
// archive item names to both UTF-8 and UTF-16 consumers without
// re-encoding on every access.
//
// Grounded on github.com/yamitzky/xlrd-go's encoding-conversion helpers
// (stdlib unicode/utf16 used the same way, to bridge a non-Go source
// format's string representation into Go's native string type) and on
// this module's own path package for the immutable value-type shape.
package textstr

import (
	"unicode/utf16"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// MaxLength is the length_max_count cap named in spec.md §4.12: the
// largest number of UTF-16 code units a String may hold.
const MaxLength = 1 << 20

// String is an immutable UTF-8 string with a UTF-16 view computed once,
// in New.
type String struct {
	utf8 string
	wide []uint16
}

// New constructs a String from UTF-8 text, validating it against
// MaxLength in UTF-16 code units.
func New(text string) (String, error) {
	wide := utf16.Encode([]rune(text))
	if len(wide) > MaxLength {
		return String{}, arcerrors.New(arcerrors.CodeInvalidArguments,
			"textstr: value exceeds length_max_count")
	}
	return String{utf8: text, wide: wide}, nil
}

// MustNew is New but panics on error; reserved for compile-time-constant
// literals where the length invariant is obviously satisfied.
func MustNew(text string) String {
	s, err := New(text)
	if err != nil {
		panic(err)
	}
	return s
}

// UTF8 returns the UTF-8 representation.
func (s String) UTF8() string { return s.utf8 }

// Wide returns the UTF-16 ("wide") code-unit view.
func (s String) Wide() []uint16 {
	out := make([]uint16, len(s.wide))
	copy(out, s.wide)
	return out
}

// Length returns the length in UTF-16 code units, matching the original
// engine's length_max_count accounting (surrogate pairs count as 2).
func (s String) Length() int { return len(s.wide) }

// IsEmpty reports whether the string has zero length.
func (s String) IsEmpty() bool { return len(s.wide) == 0 }

// Equal reports value equality by UTF-8 content.
func (s String) Equal(other String) bool { return s.utf8 == other.utf8 }
