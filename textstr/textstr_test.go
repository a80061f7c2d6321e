package textstr_test

import (
	"strings"
	"testing"

	"github.com/go-arcsdk/arcsdk/textstr"
)

func TestNewRoundTripsUTF8(t *testing.T) {
	s, err := textstr.New("héllo/wörld.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UTF8() != "héllo/wörld.txt" {
		t.Fatalf("got %q", s.UTF8())
	}
}

func TestWideViewMatchesUTF16Length(t *testing.T) {
	s, err := textstr.New("日本語")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Length() != 3 {
		t.Fatalf("got length %d, want 3", s.Length())
	}
	if len(s.Wide()) != 3 {
		t.Fatalf("got wide len %d, want 3", len(s.Wide()))
	}
}

func TestSurrogatePairCountsAsTwo(t *testing.T) {
	s, err := textstr.New("\U0001F600") // outside the BMP, needs a surrogate pair
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Length() != 2 {
		t.Fatalf("got length %d, want 2", s.Length())
	}
}

func TestNewRejectsOverMaxLength(t *testing.T) {
	huge := strings.Repeat("a", textstr.MaxLength+1)
	if _, err := textstr.New(huge); err == nil {
		t.Fatalf("expected error for over-max string")
	}
}

func TestEmptyString(t *testing.T) {
	s, err := textstr.New("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("expected empty")
	}
}
