package stream_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-arcsdk/arcsdk/stream"
)

func TestFileOutInRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")

	out := stream.NewFileOutStream(path)
	if err := out.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := out.Write([]byte("hello world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := out.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("got %q", data)
	}

	in := stream.NewFileInStream(path)
	if err := in.Open(); err != nil {
		t.Fatalf("Open in: %v", err)
	}
	defer in.Close()
	buf := make([]byte, 5)
	n, err := in.Read(buf)
	if err != nil || n != 5 || string(buf) != "hello" {
		t.Fatalf("got %q, %d, %v", buf, n, err)
	}
}

func TestFileOutStreamCopyContentEmptyWhileOpen(t *testing.T) {
	dir := t.TempDir()
	out := stream.NewFileOutStream(filepath.Join(dir, "f.bin"))
	if err := out.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer out.Close()
	data, err := out.CopyContent()
	if err != nil || data != nil {
		t.Fatalf("expected nil content while open, got %v %v", data, err)
	}
}

func TestFileInStreamEraseRejectedWhileOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	in := stream.NewFileInStream(path)
	if err := in.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := in.Erase(stream.EraseNone); err == nil {
		t.Fatalf("expected erase to be rejected while open")
	}
	in.Close()
	if err := in.Erase(stream.EraseNone); err != nil {
		t.Fatalf("Erase after close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed")
	}
}

func TestMemoryOutStreamCopyContentZeroFillsGaps(t *testing.T) {
	m := stream.NewMemoryOutStream()
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := m.Seek(10, stream.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := m.Write([]byte("end")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := m.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	want := append(make([]byte, 10), []byte("end")...)
	if !bytes.Equal(data, want) {
		t.Fatalf("got %v, want %v", data, want)
	}
}

func TestMemoryBorrowedInStreamCallsFreeExactlyOnceAtClose(t *testing.T) {
	freed := 0
	data := []byte("borrowed")
	in := stream.NewMemoryBorrowedInStream(data, func() { freed++ })
	if err := in.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if freed != 0 {
		t.Fatalf("free must not run before Close")
	}
	if err := in.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if freed != 1 {
		t.Fatalf("expected free called exactly once, got %d", freed)
	}
	in.Close() // idempotent
	if freed != 1 {
		t.Fatalf("expected free still called exactly once after second Close, got %d", freed)
	}
}

func TestMultiInStreamConcatenatesChildren(t *testing.T) {
	a := stream.NewMemoryOwnedInStream([]byte("abc"))
	b := stream.NewMemoryOwnedInStream([]byte("defgh"))
	multi := stream.NewMultiInStream(a, b)

	if err := multi.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer multi.Close()

	buf := make([]byte, 8)
	n, err := multi.Read(buf)
	if err != nil || n != 8 || string(buf) != "abcdefgh" {
		t.Fatalf("got %q, %d, %v", buf, n, err)
	}
}

func TestMultiInStreamSeekAcrossChildren(t *testing.T) {
	a := stream.NewMemoryOwnedInStream([]byte("abc"))
	b := stream.NewMemoryOwnedInStream([]byte("defgh"))
	multi := stream.NewMultiInStream(a, b)
	if err := multi.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer multi.Close()

	if _, err := multi.Seek(4, stream.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	buf := make([]byte, 2)
	n, err := multi.Read(buf)
	if err != nil || n != 2 || string(buf) != "ef" {
		t.Fatalf("got %q, %d, %v", buf, n, err)
	}
}

func TestMultiFileOutStreamPartSizing(t *testing.T) {
	dir := t.TempDir()
	const partSize = 4
	m := stream.NewMultiFileOutStream(filepath.Join(dir, "vol"), "archive", "bin", partSize)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	payload := []byte("0123456789") // 10 bytes over 4-byte parts: 4,4,2
	if _, err := m.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sizes, err := m.PartSizes()
	if err != nil {
		t.Fatalf("PartSizes: %v", err)
	}
	want := []int64{4, 4, 2}
	if len(sizes) != len(want) {
		t.Fatalf("got %d parts, want %d", len(sizes), len(want))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("part %d: got size %d, want %d", i, sizes[i], want[i])
		}
	}

	data, err := m.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("got %q, want %q", data, payload)
	}
}

func TestMultiFileOutStreamRejectsBeyond999Parts(t *testing.T) {
	dir := t.TempDir()
	m := stream.NewMultiFileOutStream(filepath.Join(dir, "vol"), "archive", "bin", 1)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	huge := make([]byte, 1000)
	if _, err := m.Write(huge); err == nil {
		t.Fatalf("expected error writing beyond 999 parts")
	}
}

func TestMultiMemoryOutStreamPartSizing(t *testing.T) {
	const partSize = 3
	m := stream.NewMultiMemoryOutStream(partSize)
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	payload := []byte("abcdefgh")
	if _, err := m.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := m.CopyContent()
	if err != nil {
		t.Fatalf("CopyContent: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("got %q, want %q", data, payload)
	}
}

func TestCallbackInStreamOpenFailureIsIOError(t *testing.T) {
	in := stream.NewCallbackInStream(stream.CallbackInStreamConfig{
		OpenFn: func(any) (bool, error) { return false, nil },
	})
	if err := in.Open(); err == nil {
		t.Fatalf("expected error when open callback returns false")
	}
}

func TestCallbackInStreamDeinitializerRunsAtClose(t *testing.T) {
	deinitRan := false
	in := stream.NewCallbackInStream(stream.CallbackInStreamConfig{
		OpenFn:        func(any) (bool, error) { return true, nil },
		CloseFn:       func(any) error { return nil },
		ReadFn:        func(any, []byte) (int, error) { return 0, nil },
		SeekFn:        func(any, int64, int) (int64, error) { return 0, nil },
		Deinitializer: func(any) { deinitRan = true },
	})
	if err := in.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := in.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !deinitRan {
		t.Fatalf("expected deinitializer to run at close")
	}
}

func TestTestOutStreamDiscardsButCountsWrites(t *testing.T) {
	ts := stream.NewTestOutStream()
	if err := ts.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	n, err := ts.Write([]byte("abcdef"))
	if err != nil || n != 6 {
		t.Fatalf("got %d, %v", n, err)
	}
	if _, err := ts.CopyContent(); err == nil {
		t.Fatalf("expected CopyContent to refuse on a discarding stream")
	}
}
