// Package item implements Item, ItemArray and ItemOutStreamArray from
// spec.md §4.5/§3: the metadata record for one archive entry, an ordered
// collection of those records, and the caller-supplied item-to-destination
// binding the decoder's extract(item_out_stream_array) overload consumes.
//
// Grounded on github.com/nabbar/golib/archive/archive/model.go's file
// metadata struct (path, size, mode, timestamps) and on
// github.com/bodgit/sevenzip's folder/file-entry model (index-ordered
// entries, CRC-32 field, the encrypted/directory flag pair) for the
// fields not present in nabbar-golib's simpler model.
package item

import (
	"time"

	"github.com/go-arcsdk/arcsdk/container"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// Item is pure metadata for one archive entry. All fields are mutable by
// the owner; Path must be non-empty at construction and Index defaults
// to 0 (spec.md §4.5).
type Item struct {
	Path           string
	Index          uint32
	UnpackedSize   uint64
	PackedSize     uint64
	CRC32          uint32
	CreationTime   time.Time
	AccessTime     time.Time
	ModTime        time.Time
	Encrypted      bool
	IsDir          bool
}

// New constructs an Item. Path must be non-empty.
func New(path string) (Item, error) {
	if path == "" {
		return Item{}, arcerrors.New(arcerrors.CodeInvalidArguments, "item: path must be non-empty")
	}
	return Item{Path: path}, nil
}

// ItemArray is an ordered sequence of items, sortable ascending by Index
// (spec.md §3's ItemArray row, §8's "after sort(), a.at(i).index == i for
// contiguous indices" property).
type ItemArray struct {
	seq *container.Sequence[Item]
}

// NewItemArray builds an ItemArray from zero or more items.
func NewItemArray(items ...Item) *ItemArray {
	return &ItemArray{seq: container.NewSequence(items...)}
}

// Push appends an item.
func (a *ItemArray) Push(it Item) { a.seq.Push(it) }

// Count returns the number of items.
func (a *ItemArray) Count() int { return a.seq.Count() }

// At returns the item at position i.
func (a *ItemArray) At(i int) (Item, bool) { return a.seq.At(i) }

// Items returns a snapshot slice of all items in current order.
func (a *ItemArray) Items() []Item { return a.seq.Snapshot() }

// Sort orders the array ascending by Index, stably.
func (a *ItemArray) Sort() {
	a.seq.SortBy(func(x, y Item) bool { return x.Index < y.Index })
}

// ItemOutStreamArray is an ordered sequence of (item, out-stream) pairs,
// binary-searchable by item index (spec.md §3). The out-stream is held
// as `any`, so this package does not import the stream package; the
// decoder package asserts each one to stream.OutStream when it extracts.
type ItemOutStreamArray struct {
	seq *container.Sequence[container.Pair[Item, any]]
}

// NewItemOutStreamArray builds an empty ItemOutStreamArray.
func NewItemOutStreamArray() *ItemOutStreamArray {
	return &ItemOutStreamArray{seq: container.NewSequence[container.Pair[Item, any]]()}
}

// Add binds an item to its destination out-stream.
func (a *ItemOutStreamArray) Add(it Item, out any) {
	a.seq.Push(container.NewPair[Item, any](it, out))
}

// Count returns the number of pairs.
func (a *ItemOutStreamArray) Count() int { return a.seq.Count() }

// Pairs returns a snapshot of all (item, out-stream) pairs, sorted
// ascending by item index.
func (a *ItemOutStreamArray) Pairs() []container.Pair[Item, any] {
	a.seq.SortBy(func(x, y container.Pair[Item, any]) bool { return x.First.Index < y.First.Index })
	return a.seq.Snapshot()
}

// Lookup returns the out-stream bound to the item with the given index,
// or ok=false when absent (spec.md §3: "lookup returns null when absent").
func (a *ItemOutStreamArray) Lookup(index uint32) (out any, ok bool) {
	a.seq.SortBy(func(x, y container.Pair[Item, any]) bool { return x.First.Index < y.First.Index })
	idx, found := a.seq.BinarySearchBy(
		func(x, y container.Pair[Item, any]) bool { return x.First.Index < y.First.Index },
		container.NewPair[Item, any](Item{Index: index}, nil),
		func(x, y container.Pair[Item, any]) bool { return x.First.Index == y.First.Index },
	)
	if !found {
		return nil, false
	}
	pair, _ := a.seq.At(idx)
	return pair.Second, true
}
