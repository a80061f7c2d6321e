package container_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/container"
)

func TestSequencePushPopCount(t *testing.T) {
	s := container.NewSequence[int]()
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Count() != 3 {
		t.Fatalf("got count %d", s.Count())
	}
	v, ok := s.Pop()
	if !ok || v != 3 {
		t.Fatalf("got %v, %v", v, ok)
	}
	if s.Count() != 2 {
		t.Fatalf("got count %d after pop", s.Count())
	}
}

func TestSequenceAtOutOfRange(t *testing.T) {
	s := container.NewSequence[string]("a", "b")
	if _, ok := s.At(5); ok {
		t.Fatalf("expected out-of-range to report not ok")
	}
	v, ok := s.At(1)
	if !ok || v != "b" {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestSequenceSortAndBinarySearch(t *testing.T) {
	s := container.NewSequence[int](5, 3, 1, 4, 2)
	less := func(a, b int) bool { return a < b }
	s.SortBy(less)
	snap := s.Snapshot()
	for i := 1; i < len(snap); i++ {
		if snap[i-1] > snap[i] {
			t.Fatalf("not sorted: %v", snap)
		}
	}
	idx, found := s.BinarySearchBy(less, 3, func(a, b int) bool { return a == b })
	if !found || snap[idx] != 3 {
		t.Fatalf("expected to find 3, got idx=%d found=%v", idx, found)
	}
	_, found = s.BinarySearchBy(less, 99, func(a, b int) bool { return a == b })
	if found {
		t.Fatalf("expected 99 not found")
	}
}

func TestSequenceClear(t *testing.T) {
	s := container.NewSequence[int](1, 2, 3)
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("expected empty after Clear, got %d", s.Count())
	}
}

func TestPair(t *testing.T) {
	p := container.NewPair("item", 42)
	if p.First != "item" || p.Second != 42 {
		t.Fatalf("got %+v", p)
	}
}

func TestSharedRetainReleaseRunsCloserOnce(t *testing.T) {
	closed := 0
	s := container.NewShared(10, func(int) { closed++ })
	r := s.Retain()
	if s.RefCount() != 2 {
		t.Fatalf("expected refcount 2, got %d", s.RefCount())
	}
	s.Release()
	if closed != 0 {
		t.Fatalf("closer should not run while a reference remains")
	}
	r.Release()
	if closed != 1 {
		t.Fatalf("expected closer to run exactly once, ran %d times", closed)
	}
}

func TestWeakUpgradeFailsAfterRelease(t *testing.T) {
	s := container.NewShared("value", nil)
	w := container.Downgrade(s)
	s.Release()
	if _, ok := w.Upgrade(); ok {
		t.Fatalf("expected upgrade to fail after last release")
	}
}

func TestWeakUpgradeSucceedsWhileAlive(t *testing.T) {
	s := container.NewShared("value", nil)
	w := container.Downgrade(s)
	up, ok := w.Upgrade()
	if !ok || up.Get() != "value" {
		t.Fatalf("expected upgrade to succeed, got %v %v", up, ok)
	}
	up.Release()
	s.Release()
}

func TestCastShared(t *testing.T) {
	s := container.NewShared(7, nil)
	casted, ok := container.CastShared[int, string](s, func(v int) (string, bool) {
		if v != 7 {
			return "", false
		}
		return "seven", true
	})
	if !ok || casted.Get() != "seven" {
		t.Fatalf("got %v, %v", casted, ok)
	}
	casted.Release()
	s.Release()
}
