package item_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/item"
)

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := item.New(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestNewDefaultsIndexToZero(t *testing.T) {
	it, err := item.New("a/b.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Index != 0 {
		t.Fatalf("got index %d, want 0", it.Index)
	}
}

func TestItemArraySortOrdersByIndexContiguously(t *testing.T) {
	a := item.NewItemArray()
	for _, idx := range []uint32{2, 0, 1} {
		it, _ := item.New("f")
		it.Index = idx
		a.Push(it)
	}
	a.Sort()
	for i := 0; i < a.Count(); i++ {
		got, ok := a.At(i)
		if !ok || int(got.Index) != i {
			t.Fatalf("at(%d) = %+v, ok=%v; want index %d", i, got, ok, i)
		}
	}
}

func TestItemOutStreamArrayLookup(t *testing.T) {
	a := item.NewItemOutStreamArray()
	it1, _ := item.New("a")
	it1.Index = 5
	it2, _ := item.New("b")
	it2.Index = 9

	a.Add(it1, "stream-for-a")
	a.Add(it2, "stream-for-b")

	out, ok := a.Lookup(9)
	if !ok || out != "stream-for-b" {
		t.Fatalf("got %v, %v", out, ok)
	}

	if _, ok := a.Lookup(42); ok {
		t.Fatalf("expected lookup miss for absent index")
	}
}

func TestItemOutStreamArrayPairsSortedByIndex(t *testing.T) {
	a := item.NewItemOutStreamArray()
	it1, _ := item.New("a")
	it1.Index = 3
	it2, _ := item.New("b")
	it2.Index = 1

	a.Add(it1, nil)
	a.Add(it2, nil)

	pairs := a.Pairs()
	if pairs[0].First.Index != 1 || pairs[1].First.Index != 3 {
		t.Fatalf("expected ascending-index order, got %+v", pairs)
	}
}
