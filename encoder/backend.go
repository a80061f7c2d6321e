package encoder

import (
	"github.com/go-arcsdk/arcsdk/codec"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

func newBackend(kind codec.ContainerID) (backend, error) {
	switch kind {
	case codec.Container7z:
		return &sevenZipBackend{}, nil
	case codec.ContainerXZ:
		return &xzBackend{}, nil
	case codec.ContainerTar:
		return &tarBackend{}, nil
	default:
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "encoder: unknown container kind")
	}
}
