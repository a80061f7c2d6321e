package container

// Pair is a generic 2-tuple, used by spec.md §4.2 to bind an Item to its
// destination OutStream in ItemOutStreamArray without a dedicated named
// struct for every combination.
type Pair[A, B any] struct {
	First  A
	Second B
}

// NewPair constructs a Pair.
func NewPair[A, B any](first A, second B) Pair[A, B] {
	return Pair[A, B]{First: first, Second: second}
}
