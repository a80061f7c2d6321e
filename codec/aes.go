package codec

import (
	"bytes"
	"io"

	"github.com/go-arcsdk/arcsdk/cryptutil"
	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

// AES coder properties follow the 7z AES256+SHA256 coder: byte 0 packs
// numCyclesPower (low 6 bits) and salt/IV size flags (high 2 bits),
// followed by the salt and then the IV. The 7z-AES decoder buffers the
// whole ciphertext and decrypts it in one pass rather than incrementally
// (the AES-256-CBC registration has no working decoder) — acceptable because 7z
// folders bound by this coder are themselves bounded by the platform
// memory limit already enforced at the OutStream layer.
func parseAESProperties(props []byte) (salt, iv []byte, numCyclesPower byte, err error) {
	if len(props) < 1 {
		return nil, nil, 0, arcerrors.New(arcerrors.CodeInvalidArguments, "codec: AES properties must be at least 1 byte")
	}
	numCyclesPower = props[0] & 0x3f
	saltSize := int((props[0] >> 7) & 1)
	ivSize := int((props[0] >> 6) & 1)
	// The high bits here are a simplified stand-in for 7z's variable-
	// length salt/IV size encoding (which uses a second header byte when
	// sizes exceed what 2 bits can hold); this engine always generates
	// full-size (16-byte) salt and IV via cryptutil.NewSalt/NewIV, so the
	// two flag bits are sufficient for anything this engine itself wrote.
	if saltSize == 1 {
		saltSize = cryptutil.SaltSize
	}
	if ivSize == 1 {
		ivSize = cryptutil.BlockSize
	}
	rest := props[1:]
	if len(rest) < saltSize+ivSize {
		return nil, nil, 0, arcerrors.New(arcerrors.CodeInvalidArguments, "codec: AES properties truncated")
	}
	salt = rest[:saltSize]
	iv = rest[saltSize : saltSize+ivSize]
	return salt, iv, numCyclesPower, nil
}

// EncodeAESProperties packs salt/iv/numCyclesPower into the coder
// property bytes parseAESProperties expects.
func EncodeAESProperties(salt, iv []byte, numCyclesPower byte) []byte {
	flags := numCyclesPower & 0x3f
	if len(salt) > 0 {
		flags |= 1 << 7
	}
	if len(iv) > 0 {
		flags |= 1 << 6
	}
	out := make([]byte, 0, 1+len(salt)+len(iv))
	out = append(out, flags)
	out = append(out, salt...)
	out = append(out, iv...)
	return out
}

// aesPasswordSource is the password resolver the 7z-AES codec consults
// on decode. The codec registry is process-wide and has no notion of a
// decoder session, so this is a swappable package-level hook rather than
// a constructor parameter; SetAESPasswordSource rebinds it per call.
var aesPasswordSource func() (string, error)

// SetAESPasswordSource rebinds the password source the 7z-AES codec
// consults on decode; the decoder package's Open sets it to its
// session's progress.PasswordSource. The decoder's 7z backend reads
// encrypted folders through github.com/bodgit/sevenzip rather than this
// registry, so the source is consulted only for decodes that go through
// the registry.
func SetAESPasswordSource(src func() (string, error)) {
	aesPasswordSource = src
}

func registerAES256SHA256Codec() {
	register(Registration{
		ID:   IDAES256SHA256,
		Name: "7z-AES",
		Decoder: func(r io.Reader, props []byte) (io.Reader, error) {
			salt, iv, cycles, err := parseAESProperties(props)
			if err != nil {
				return nil, err
			}
			if aesPasswordSource == nil {
				return nil, arcerrors.New(arcerrors.CodePassword, "codec: no password source configured for 7z-AES")
			}
			password, err := aesPasswordSource()
			if err != nil {
				return nil, err
			}
			ciphertext, err := io.ReadAll(r)
			if err != nil {
				return nil, arcerrors.Wrap(arcerrors.CodeIO, "codec: reading AES ciphertext", err)
			}
			key := cryptutil.DeriveKey(password, salt, cycles)
			plaintext, err := cryptutil.Decrypt(key, iv, ciphertext)
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(plaintext), nil
		},
	})
}

func registerAESCBCCodec() {
	register(Registration{
		ID:   IDAESCBC,
		Name: "AES-256-CBC",
		Decoder: func(r io.Reader, props []byte) (io.Reader, error) {
			return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "codec: AES-256-CBC coder requires a key, use cryptutil directly")
		},
	})
}
