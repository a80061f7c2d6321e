package decoder

import (
	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
	"github.com/go-arcsdk/arcsdk/progress"
	"github.com/go-arcsdk/arcsdk/stream"
)

func newBackend(kind codec.ContainerID, source stream.InStream, passwords *progress.PasswordSource) (backend, error) {
	switch kind {
	case codec.Container7z:
		return newSevenZipBackend(source, passwords)
	case codec.ContainerXZ:
		return newXZBackend(source)
	case codec.ContainerTar:
		return newTarBackend(source)
	default:
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "decoder: unknown container kind")
	}
}
