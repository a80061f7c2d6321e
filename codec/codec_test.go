package codec_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-arcsdk/arcsdk/codec"
)

func TestInitIsIdempotentAndRegistersCopy(t *testing.T) {
	codec.Init()
	codec.Init()
	reg, ok := codec.Lookup(codec.IDCopy)
	if !ok || reg.Name != "Copy" {
		t.Fatalf("got %+v, %v", reg, ok)
	}
}

func TestCopyCodecRoundTrips(t *testing.T) {
	codec.Init()
	reg, ok := codec.Lookup(codec.IDCopy)
	if !ok {
		t.Fatalf("Copy codec not registered")
	}

	var buf bytes.Buffer
	w, err := reg.Encoder(nopWriteCloser{&buf}, nil)
	if err != nil {
		t.Fatalf("Encoder: %v", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := reg.Decoder(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("Decoder: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q", got)
	}
}

func TestUnavailableCodecsReturnTypedError(t *testing.T) {
	codec.Init()
	for _, id := range []codec.ID{codec.IDPPMd, codec.IDBCJ, codec.IDBCJ2} {
		reg, ok := codec.Lookup(id)
		if !ok {
			t.Fatalf("expected %v registered", id)
		}
		if _, err := reg.Decoder(bytes.NewReader(nil), nil); err == nil {
			t.Fatalf("expected %v decoder to report unavailable", id)
		}
	}
}

func TestContainerRegistrationsAreAvailable(t *testing.T) {
	codec.Init()
	for _, id := range []codec.ContainerID{codec.Container7z, codec.ContainerXZ, codec.ContainerTar} {
		reg, ok := codec.LookupContainer(id)
		if !ok || !reg.Available {
			t.Fatalf("expected %v available, got %+v %v", id, reg, ok)
		}
	}
}

func TestCRC32MatchesKnownVector(t *testing.T) {
	// CRC-32/IEEE of "123456789" is the well-known check value 0xCBF43926.
	got := codec.CRC32([]byte("123456789"))
	if got != 0xCBF43926 {
		t.Fatalf("got %#x, want 0xCBF43926", got)
	}
}

func TestEncodeAESPropertiesRoundTripsThroughDecoder(t *testing.T) {
	codec.Init()
	salt := bytes.Repeat([]byte{0x09}, 16)
	iv := bytes.Repeat([]byte{0x0a}, 16)
	props := codec.EncodeAESProperties(salt, iv, 6)

	codec.SetAESPasswordSource(func() (string, error) { return "hello", nil })
	reg, ok := codec.Lookup(codec.IDAES256SHA256)
	if !ok {
		t.Fatalf("7z-AES codec not registered")
	}
	// Garbage ciphertext should fail cleanly (wrong padding), proving the
	// properties parsed far enough to reach the decrypt step rather than
	// erroring out on malformed properties.
	if _, err := reg.Decoder(bytes.NewReader(make([]byte, 16)), props); err == nil {
		t.Fatalf("expected decrypt of garbage ciphertext to fail")
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
