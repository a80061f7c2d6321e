package codec_test

import (
	"testing"

	"github.com/go-arcsdk/arcsdk/codec"
)

func TestExtraCodecsRoundTripThroughBuffer(t *testing.T) {
	codec.Init()
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated for compression: the quick brown fox jumps over the lazy dog")

	for _, id := range []codec.ID{codec.IDLZ4, codec.IDBzip2, codec.IDSnappy, codec.IDBrotli, codec.IDDeflate} {
		id := id
		t.Run(id.String(), func(t *testing.T) {
			compressed, err := codec.CompressBuffer(id, payload)
			if err != nil {
				t.Fatalf("CompressBuffer: %v", err)
			}
			got, err := codec.DecompressBuffer(id, compressed)
			if err != nil {
				t.Fatalf("DecompressBuffer: %v", err)
			}
			if string(got) != string(payload) {
				t.Fatalf("got %q, want %q", got, payload)
			}
		})
	}
}
