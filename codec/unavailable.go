package codec

import "io"

// registerUnavailableCodec registers id/name with constructors that
// always fail with ErrCodecUnavailable — see DESIGN.md's logged Open
// Question resolution: PPMd, BCJ and BCJ2 have no importable pure-Go
// implementation anywhere in the example corpus, so they are recognized
// (not "unknown codec") but cannot run.
func registerUnavailableCodec(id ID, name string) {
	register(Registration{
		ID:   id,
		Name: name,
		Decoder: func(io.Reader, []byte) (io.Reader, error) {
			return nil, ErrCodecUnavailable(name)
		},
		Encoder: func(io.WriteCloser, []byte) (io.WriteCloser, error) {
			return nil, ErrCodecUnavailable(name)
		},
	})
}

func registerBuiltinCodecs() {
	registerCopyCodec()
	registerLZMACodec()
	registerLZMA2Codec()
	registerUnavailableCodec(IDPPMd, "PPMd")
	registerUnavailableCodec(IDBCJ, "BCJ")
	registerUnavailableCodec(IDBCJ2, "BCJ2")
	registerAES256SHA256Codec()
	registerAESCBCCodec()
	registerExtraCodecs()
}
