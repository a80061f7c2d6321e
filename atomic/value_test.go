package atomic_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/atomic"
)

func TestLoadBeforeStoreReturnsZeroValue(t *testing.T) {
	v := &atomic.Value[int]{}
	if got := v.Load(); got != 0 {
		t.Fatalf("got %d, want zero value", got)
	}
}

func TestStoreThenLoadRoundTrips(t *testing.T) {
	v := atomic.NewValue("initial")
	if got := v.Load(); got != "initial" {
		t.Fatalf("got %q, want %q", got, "initial")
	}
	v.Store("updated")
	if got := v.Load(); got != "updated" {
		t.Fatalf("got %q, want %q", got, "updated")
	}
}
