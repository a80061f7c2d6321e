package decoder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-arcsdk/arcsdk/codec"
	"github.com/go-arcsdk/arcsdk/decoder"
	"github.com/go-arcsdk/arcsdk/encoder"
	"github.com/go-arcsdk/arcsdk/item"
	"github.com/go-arcsdk/arcsdk/stream"
)

func buildTarArchive(t *testing.T, srcDir string) []byte {
	t.Helper()
	out := stream.NewMemoryOutStream()
	enc := encoder.New(out, codec.ContainerTar, codec.IDCopy)
	if err := enc.Add(srcDir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok, err := enc.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}
	if ok, err := enc.Compress(); err != nil || !ok {
		t.Fatalf("Compress: ok=%v err=%v", ok, err)
	}
	_ = enc.Close()
	data, err := out.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	return data
}

func TestDecoderExtractAllReproducesFiles(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("payload bytes")
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	archive := buildTarArchive(t, srcDir)

	destDir := filepath.Join(dir, "dest")
	in := stream.NewMemoryOwnedInStream(archive)
	dec := decoder.New(in, codec.ContainerTar)
	if ok, err := dec.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}
	if ok, err := dec.ExtractAll(destDir, true); err != nil || !ok {
		t.Fatalf("ExtractAll: ok=%v err=%v", ok, err)
	}
	got, err := os.ReadFile(filepath.Join(destDir, "src", "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile extracted: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("got %q, want %q", got, content)
	}
	_ = dec.Close()
}

func TestDecoderItemAtOutOfRangeErrors(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	archive := buildTarArchive(t, srcDir)

	in := stream.NewMemoryOwnedInStream(archive)
	dec := decoder.New(in, codec.ContainerTar)
	if ok, err := dec.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}
	if _, err := dec.ItemAt(int(dec.Count())); err == nil {
		t.Fatal("expected out-of-range error")
	}
	_ = dec.Close()
}

func TestDecoderExtractToStreamsCoversSubset(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0644); err != nil {
		t.Fatalf("WriteFile a: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "b.txt"), []byte("bbb"), 0644); err != nil {
		t.Fatalf("WriteFile b: %v", err)
	}
	archive := buildTarArchive(t, srcDir)

	in := stream.NewMemoryOwnedInStream(archive)
	dec := decoder.New(in, codec.ContainerTar)
	if ok, err := dec.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}

	pairs := item.NewItemOutStreamArray()
	var target item.Item
	for i := 0; i < int(dec.Count()); i++ {
		it, _ := dec.ItemAt(i)
		if filepath.Base(it.Path) == "b.txt" {
			target = it
		}
	}
	out := stream.NewMemoryOutStream()
	pairs.Add(target, stream.OutStream(out))

	if ok, err := dec.ExtractToStreams(pairs); err != nil || !ok {
		t.Fatalf("ExtractToStreams: ok=%v err=%v", ok, err)
	}
	got, err := out.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	if string(got) != "bbb" {
		t.Fatalf("got %q, want bbb", got)
	}
	_ = dec.Close()
}

func TestDecoderTestPassesForCleanArchive(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	archive := buildTarArchive(t, srcDir)

	in := stream.NewMemoryOwnedInStream(archive)
	dec := decoder.New(in, codec.ContainerTar)
	if ok, err := dec.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}
	ok, err := dec.Test()
	if err != nil || !ok {
		t.Fatalf("Test: ok=%v err=%v", ok, err)
	}
	_ = dec.Close()
}

func TestDecoderAbortStopsExtraction(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("aaa"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	archive := buildTarArchive(t, srcDir)

	in := stream.NewMemoryOwnedInStream(archive)
	dec := decoder.New(in, codec.ContainerTar)
	if ok, err := dec.Open(); err != nil || !ok {
		t.Fatalf("Open: ok=%v err=%v", ok, err)
	}
	dec.Abort()
	ok, err := dec.ExtractAll(filepath.Join(dir, "dest"), true)
	if err != nil {
		t.Fatalf("ExtractAll after abort: %v", err)
	}
	if ok {
		t.Fatal("expected false after abort")
	}
}
