package encoder

import (
	"archive/tar"
	"time"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/stream"
)

// tarBackend writes a ustar archive via the standard library's
// archive/tar — tar has no codec dimension of its own to wire (it is
// reused bit-for-bit per spec.md §6).
type tarBackend struct{}

func (b *tarBackend) write(dest stream.OutStream, entries []addedEntry, opts writeOptions) error {
	tw := tar.NewWriter(dest)
	for _, a := range entries {
		var content []byte
		if !a.isDir {
			data, err := readAllEntry(a)
			if err != nil {
				return err
			}
			content = data
		}

		typeflag := byte(tar.TypeReg)
		if a.isDir {
			typeflag = tar.TypeDir
		}

		hdr := &tar.Header{
			Name:     a.archiveName,
			Size:     int64(len(content)),
			Mode:     0644,
			ModTime:  time.Unix(0, a.modTime),
			Typeflag: typeflag,
		}
		if a.isDir {
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return arcerrors.Wrap(arcerrors.CodeIO, "encoder: writing tar header", err)
		}
		if len(content) > 0 {
			if _, err := tw.Write(content); err != nil {
				return arcerrors.Wrap(arcerrors.CodeIO, "encoder: writing tar content", err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		return arcerrors.Wrap(arcerrors.CodeIO, "encoder: closing tar writer", err)
	}
	return nil
}
