// Package path implements the Path value type of spec.md §4.1: a
// normalized filesystem path with component operations, existence/
// permission queries, timestamp read/apply and directory iteration.
//
// Grounded on github.com/nabbar/golib/archive/archive's File/path helpers
// (CleanPath's strip-leading-".." loop, filepath.Join-based component
// joins) generalized to the fuller component/normalization contract
// spec.md asks for, and on github.com/nabbar/golib/ioutils's tempFile.go
// pattern for the temporary-directory / random-component lookups.
package path

import (
	"crypto/rand"
	"encoding/base32"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	sep = string(os.PathSeparator)
)

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// Path is a normalized filesystem path. The zero value is the empty path,
// which spec.md declares legal and meaning "unset".
type Path struct {
	s string
}

// New constructs a Path from UTF-8 text, normalizing it immediately.
func New(text string) Path {
	return Path{s: normalize(text)}
}

// String returns the normalized text.
func (p Path) String() string { return p.s }

// IsEmpty reports whether the path is the unset/empty value.
func (p Path) IsEmpty() bool { return p.s == "" }

func isSeparator(b byte) bool { return b == '/' || b == '\\' }

// isRoot reports whether s is exactly a root: "/", "\", or a drive root
// like "C:", "C:/" or "C:\" (at most two separators after the letter).
// A `\\?\` long-path prefix is not recognized as a root.
func isRoot(s string) bool {
	if s == "/" || s == "\\" {
		return true
	}
	if driveLetter.MatchString(s) && len(s) >= 2 {
		rest := s[2:]
		return rest == "" || (len(rest) <= 2 && allSeparators(rest))
	}
	return false
}

func allSeparators(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSeparator(s[i]) {
			return false
		}
	}
	return true
}

// normalize applies the rules of spec.md §4.1: collapse runs of '/' and
// '\' into one platform separator, preserve the root as present, drop
// trailing separators except when the path IS the root. The Windows drive
// prefix "X:" is preserved verbatim, and a duplicated separator pair
// immediately following the drive letter is preserved as two separators
// (not collapsed to one) — the one documented exception to collapsing.
func normalize(in string) string {
	if in == "" {
		return ""
	}

	var prefix string
	body := in

	if driveLetter.MatchString(in) {
		prefix = in[:2]
		body = in[2:]

		// Preserve exactly two leading separators after the drive letter,
		// as the original source's test suite requires (e.g. `C:\\`).
		if len(body) >= 2 && isSeparator(body[0]) && isSeparator(body[1]) {
			prefix += sep + sep
			body = body[2:]
		}
	}

	collapsed := collapseSeparators(body)

	full := prefix + collapsed

	if isRoot(full) {
		// Normalize a bare root's separator spelling but keep it a root.
		if prefix != "" {
			return full
		}
		return sep
	}

	// Drop a single trailing separator (collapseSeparators never produces
	// runs, so there is at most one to strip).
	full = strings.TrimSuffix(full, sep)

	if full == prefix {
		// Nothing left after the drive letter: treat as drive root.
		return prefix + sep
	}

	return full
}

func collapseSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSep := false
	for i := 0; i < len(s); i++ {
		if isSeparator(s[i]) {
			if !lastWasSep {
				b.WriteString(sep)
				lastWasSep = true
			}
			continue
		}
		b.WriteByte(s[i])
		lastWasSep = false
	}
	return b.String()
}

// Appending returns a new Path with component appended; it does not
// mutate the receiver.
func (p Path) Appending(component string) Path {
	if component == "" {
		return p
	}
	if p.s == "" {
		return New(component)
	}
	if strings.HasSuffix(p.s, sep) {
		return New(p.s + component)
	}
	return New(p.s + sep + component)
}

// Append mutates the receiver in place, matching the "append" (mutating)
// member named in spec.md §4.1 alongside the non-mutating "appending".
func (p *Path) Append(component string) {
	*p = p.Appending(component)
}

// LastComponent returns the final path segment, or "" for an empty or
// root path.
func (p Path) LastComponent() string {
	if p.s == "" || isRoot(p.s) {
		return ""
	}
	idx := strings.LastIndex(p.s, sep)
	if idx < 0 {
		return p.s
	}
	return p.s[idx+1:]
}

// RemovingLastComponent implements the remove-last-component policy of
// spec.md §4.1: on a non-root path, drop the last component and its
// preceding separator; on a root, the path stays at the root; on empty it
// stays empty.
func (p Path) RemovingLastComponent() Path {
	if p.s == "" {
		return p
	}
	if isRoot(p.s) {
		return p
	}
	idx := strings.LastIndex(p.s, sep)
	if idx < 0 {
		return Path{}
	}
	head := p.s[:idx]
	if head == "" {
		return Path{s: sep}
	}
	if isRoot(head) {
		return Path{s: head}
	}
	return Path{s: head}
}

// RemoveLastComponent mutates the receiver via RemovingLastComponent.
func (p *Path) RemoveLastComponent() {
	*p = p.RemovingLastComponent()
}

// Exists reports whether the path exists on disk and whether it is a
// directory.
func (p Path) Exists() (exists bool, isDir bool) {
	info, err := os.Stat(p.s)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

// Readable reports whether the path can be opened for reading.
func (p Path) Readable() bool {
	f, err := os.Open(p.s)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Writable reports whether the path can be written: an existing file by
// opening it for writing, an existing directory by its own owner-write
// permission bit, and a missing path by its parent directory's
// owner-write bit (matches the teacher's avoidance of a temp-file probe
// for a plain permission check).
func (p Path) Writable() bool {
	if exists, isDir := p.Exists(); exists {
		if isDir {
			return unix_writable(p.s)
		}
		f, err := os.OpenFile(p.s, os.O_WRONLY, 0)
		if err != nil {
			return false
		}
		_ = f.Close()
		return true
	}
	return unix_writable(p.RemovingLastComponent().s)
}

func unix_writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0200 != 0
}

// OpenFile opens the host file handle at this path with the given flags.
func (p Path) OpenFile(flag int, perm fs.FileMode) (*os.File, error) {
	return os.OpenFile(p.s, flag, perm)
}

// CreateDir creates the directory at this path, recursively if requested.
func (p Path) CreateDir(recursive bool) error {
	if recursive {
		return os.MkdirAll(p.s, 0o775)
	}
	return os.Mkdir(p.s, 0o775)
}

// Remove deletes the file or directory at this path. When the path is a
// non-empty directory, skipDirContentsIfNonEmptyFails controls whether
// Remove fails instead of recursing (spec.md §4.1).
func (p Path) Remove(skipDirContentsIfNonEmptyFails bool) error {
	if skipDirContentsIfNonEmptyFails {
		return os.Remove(p.s)
	}
	return os.RemoveAll(p.s)
}

// Stat returns the size and modification time recorded for the path;
// access and creation times are not returned.
func (p Path) Stat() (size int64, modTime time.Time, err error) {
	info, e := os.Stat(p.s)
	if e != nil {
		return 0, time.Time{}, e
	}
	return info.Size(), info.ModTime(), nil
}

// ApplyFileTimestamp sets the access/modification time of the path,
// matching the item-timestamp restoration spec.md §4.7 requires after
// extraction.
func (p Path) ApplyFileTimestamp(accessTime, modTime time.Time) error {
	return os.Chtimes(p.s, accessTime, modTime)
}

// Entry is one result of OpenDir: a directory component, its path
// relative to the iterated root, its full path, and whether it is itself
// a directory.
type Entry struct {
	Component    string
	RelativePath string
	FullPath     Path
	IsDir        bool
}

// OpenDir walks the directory tree rooted at p and returns one Entry per
// file-system object encountered (files and directories alike).
func (p Path) OpenDir() ([]Entry, error) {
	var out []Entry
	root := p.s
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		out = append(out, Entry{
			Component:    d.Name(),
			RelativePath: rel,
			FullPath:     New(path),
			IsDir:        d.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TmpPath returns the host's temporary directory as a Path, matching the
// class method `Path::tmpPath()` in spec.md §4.1.
func TmpPath() Path {
	return New(os.TempDir())
}

// AppendingRandomComponent is the class-method form of
// Path.AppendRandomComponent: it appends a random component to the
// system temp path.
func AppendingRandomComponent() (Path, error) {
	return TmpPath().AppendRandomComponent()
}

// AppendRandomComponent appends a random, filesystem-legal, currently
// unused component to p, retrying on collision (spec.md §4.12). It uses
// crypto/rand, not a wall-clock-seeded PRNG, per Design Notes §9's
// explicit call-out of that anti-pattern.
func (p Path) AppendRandomComponent() (Path, error) {
	const attempts = 64
	for i := 0; i < attempts; i++ {
		token, err := randomToken()
		if err != nil {
			return Path{}, err
		}
		candidate := p.Appending("arc-" + token)
		if exists, _ := candidate.Exists(); !exists {
			return candidate, nil
		}
	}
	return Path{}, os.ErrExist
}

// randomToken returns a filesystem-safe token with at least 128 random
// bits, base32-encoded (base-36-equivalent legality: letters and digits
// only, no padding).
func randomToken() (string, error) {
	buf := make([]byte, 20) // 160 bits
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimRight(base32.StdEncoding.EncodeToString(buf), "=")), nil
}
