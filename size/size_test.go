package size_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/size"
)

func TestUnitsAreStrictlyOrdered(t *testing.T) {
	units := []size.Size{size.SizeNul, size.SizeUnit, size.SizeKilo, size.SizeMega, size.SizeGiga, size.SizeTera}
	for i := 1; i < len(units); i++ {
		if !(units[i-1] < units[i]) {
			t.Fatalf("unit %d (%d) should be strictly smaller than unit %d (%d)", i-1, units[i-1], i, units[i])
		}
	}
}

func TestKiloIsOneThousandTwentyFourBytes(t *testing.T) {
	if size.SizeKilo != 1024 {
		t.Fatalf("got %d, want 1024", size.SizeKilo)
	}
	if size.SizeMega != 1024*size.SizeKilo {
		t.Fatalf("mega should be 1024 kilo")
	}
}

func TestIsZero(t *testing.T) {
	if !size.SizeNul.IsZero() {
		t.Fatal("SizeNul should report zero")
	}
	if size.SizeUnit.IsZero() {
		t.Fatal("SizeUnit should not report zero")
	}
}
