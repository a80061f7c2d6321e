package path_test

import (
	"os"
	"testing"
	"time"

	"github.com/go-arcsdk/arcsdk/path"
)

func TestNormalizeCollapsesSeparatorRuns(t *testing.T) {
	got := path.New("a//b///c").String()
	want := "a" + string(os.PathSeparator) + "b" + string(os.PathSeparator) + "c"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeDropsTrailingSeparator(t *testing.T) {
	got := path.New("a/b/").String()
	want := "a" + string(os.PathSeparator) + "b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizePreservesRoot(t *testing.T) {
	got := path.New("/").String()
	if got != string(os.PathSeparator) {
		t.Fatalf("got %q, want root", got)
	}
}

func TestNormalizeDriveRootIsPreserved(t *testing.T) {
	got := path.New("C:/").String()
	if got != "C:"+string(os.PathSeparator) {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeDriveDoubleSeparatorPreservedAsTwo(t *testing.T) {
	got := path.New(`C:\\foo`).String()
	want := "C:" + string(os.PathSeparator) + string(os.PathSeparator) + "foo"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := path.New("a//b\\c/")
	twice := path.New(once.String())
	if once.String() != twice.String() {
		t.Fatalf("not idempotent: %q vs %q", once.String(), twice.String())
	}
}

func TestAppendingDoesNotMutateReceiver(t *testing.T) {
	base := path.New("a/b")
	child := base.Appending("c")
	if base.String() == child.String() {
		t.Fatalf("expected distinct paths")
	}
	want := "a" + string(os.PathSeparator) + "b" + string(os.PathSeparator) + "c"
	if child.String() != want {
		t.Fatalf("got %q, want %q", child.String(), want)
	}
}

func TestLastComponent(t *testing.T) {
	if got := path.New("a/b/c").LastComponent(); got != "c" {
		t.Fatalf("got %q", got)
	}
	if got := path.New("/").LastComponent(); got != "" {
		t.Fatalf("expected empty for root, got %q", got)
	}
}

func TestRemovingLastComponentStaysAtRoot(t *testing.T) {
	root := path.New("/")
	if got := root.RemovingLastComponent().String(); got != root.String() {
		t.Fatalf("root should be stable under RemovingLastComponent, got %q", got)
	}
}

func TestRemovingLastComponentOnEmptyStaysEmpty(t *testing.T) {
	var p path.Path
	if got := p.RemovingLastComponent(); !got.IsEmpty() {
		t.Fatalf("expected empty, got %q", got.String())
	}
}

func TestAppendRandomComponentIsUniqueAndUnused(t *testing.T) {
	dir := t.TempDir()
	base := path.New(dir)
	p1, err := base.AppendRandomComponent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := base.AppendRandomComponent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1.String() == p2.String() {
		t.Fatalf("expected distinct random components")
	}
	if exists, _ := p1.Exists(); exists {
		t.Fatalf("random component should not already exist")
	}
}

func TestCreateDirAndExists(t *testing.T) {
	dir := t.TempDir()
	target := path.New(dir).Appending("nested").Appending("child")
	if err := target.CreateDir(true); err != nil {
		t.Fatalf("CreateDir: %v", err)
	}
	exists, isDir := target.Exists()
	if !exists || !isDir {
		t.Fatalf("expected created dir to exist, got exists=%v isDir=%v", exists, isDir)
	}
}

func TestOpenDirListsChildren(t *testing.T) {
	dir := t.TempDir()
	root := path.New(dir)
	if err := root.Appending("sub").CreateDir(true); err != nil {
		t.Fatalf("CreateDir: %v", err)
	}
	f, err := root.Appending("file.txt").OpenFile(os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	_ = f.Close()

	entries, err := root.OpenDir()
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestApplyAndReadTimestamp(t *testing.T) {
	dir := t.TempDir()
	p := path.New(dir).Appending("stamped.txt")
	f, err := p.OpenFile(os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	_ = f.Close()

	when, err := time.Parse(time.RFC3339, "2020-01-02T03:04:05Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := p.ApplyFileTimestamp(when, when); err != nil {
		t.Fatalf("ApplyFileTimestamp: %v", err)
	}
	_, modTime, err := p.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !modTime.Equal(when) {
		t.Fatalf("got modTime %v, want %v", modTime, when)
	}
}
