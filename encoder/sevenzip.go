package encoder

import (
	"io/fs"
	"time"

	"github.com/go-arcsdk/arcsdk/internal/sevenzipfmt"
	"github.com/go-arcsdk/arcsdk/stream"
)

// sevenZipBackend writes a 7z archive via internal/sevenzipfmt, which
// mirrors the real format's signature/pack/folder/files-info layout
// closely enough for this engine's own decoder (backed by
// github.com/bodgit/sevenzip) to read back, per DESIGN.md's logged
// scoping decision: one folder per non-empty entry (set_solid is
// recorded but not honored — see DESIGN.md), content encryption wired
// through when a password is armed.
type sevenZipBackend struct{}

func (b *sevenZipBackend) write(dest stream.OutStream, entries []addedEntry, opts writeOptions) error {
	fzEntries := make([]sevenzipfmt.Entry, 0, len(entries))
	for _, a := range entries {
		var content []byte
		if !a.isDir {
			data, err := readAllEntry(a)
			if err != nil {
				return err
			}
			content = data
		}
		fzEntries = append(fzEntries, sevenzipfmt.Entry{
			Name:       a.archiveName,
			Content:    content,
			IsDir:      a.isDir,
			ModTime:    time.Unix(0, a.modTime),
			Attributes: attributesFor(a),
		})
	}

	password := ""
	if opts.contentEncryption {
		password = opts.password
	}

	return sevenzipfmt.Write(dest, fzEntries, sevenzipfmt.WriteOptions{
		Method:         opts.method,
		Password:       password,
		NumCyclesPower: opts.numCyclesPower,
	})
}

func attributesFor(a addedEntry) uint32 {
	if a.isDir {
		return uint32(fs.ModeDir)
	}
	return 0
}
