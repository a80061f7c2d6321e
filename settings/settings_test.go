package settings_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/settings"
	"github.com/go-arcsdk/arcsdk/size"
)

func TestSetAndGetRoundTrips(t *testing.T) {
	orig := settings.StreamReadSize()
	defer settings.SetStreamReadSize(orig)

	settings.SetStreamReadSize(128 * size.SizeKilo)
	if got := settings.StreamReadSize(); got != 128*size.SizeKilo {
		t.Fatalf("got %v, want %v", got, 128*size.SizeKilo)
	}
}

func TestSnapCapturesAllFourTunables(t *testing.T) {
	s := settings.Snap()
	if s.StreamRead == 0 || s.StreamWrite == 0 || s.DecoderRead == 0 || s.DecoderWrite == 0 {
		t.Fatalf("expected nonzero defaults, got %+v", s)
	}
}

func TestDecoderWriteDefaultAtLeastDecoderRead(t *testing.T) {
	if settings.DecoderWriteSize() < settings.DecoderReadSize() {
		t.Fatalf("decoder write buffer should default >= read buffer: %v < %v",
			settings.DecoderWriteSize(), settings.DecoderReadSize())
	}
}
