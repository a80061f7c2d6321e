// Package cryptutil implements spec.md §4.9's AES-256-CBC encryption with
// 7z-style key derivation: password + salt stretched through repeated
// SHA-256 passes into a 256-bit key, then AES-256 in CBC mode with PKCS7
// padding over the plaintext stream.
//
// Grounded on github.com/nabbar/golib/crypt/crypt.go's Encrypt/Decrypt
// pair (crypto/aes + crypto/cipher, key/nonce held as package state),
// adapted from AEAD/GCM sealing — which carries its own authentication
// tag the 7z wire format has no room for — to CBC, and with the key
// derived from a password instead of supplied as raw key bytes, per
// DESIGN.md's logged AES-GCM→AES-256-CBC deviation.
package cryptutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"unicode/utf16"

	arcerrors "github.com/go-arcsdk/arcsdk/errors"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// BlockSize is the AES block size, also the CBC IV length.
	BlockSize = aes.BlockSize
	// SaltSize is the default salt length used by DeriveKey's caller when
	// generating a fresh salt for encryption.
	SaltSize = 16
)

// DeriveKey implements the 7z key-derivation function: the UTF-16LE
// encoding of password is concatenated with salt and an 8-byte
// little-endian counter, and 2^numCyclesPower such blocks (the counter
// counting up from 0) are fed into one SHA-256 hash, whose final 32-byte
// digest is the AES-256 key. numCyclesPower matches the coder property
// 7z stores alongside the salt/IV for AES-256+SHA-256 entries.
func DeriveKey(password string, salt []byte, numCyclesPower byte) [KeySize]byte {
	wide := utf16.Encode([]rune(password))
	pwBytes := make([]byte, len(wide)*2)
	for i, u := range wide {
		pwBytes[2*i] = byte(u)
		pwBytes[2*i+1] = byte(u >> 8)
	}

	h := sha256.New()
	if numCyclesPower == 63 {
		// 0x3F is the 7z sentinel for "no stretching": salt+password hashed
		// once.
		h.Write(salt)
		h.Write(pwBytes)
	} else {
		counter := make([]byte, 8)
		cycles := uint64(1) << numCyclesPower
		for i := uint64(0); i < cycles; i++ {
			h.Write(salt)
			h.Write(pwBytes)
			h.Write(counter)
			incrementLE(counter)
		}
	}

	var key [KeySize]byte
	copy(key[:], h.Sum(nil))
	return key
}

func incrementLE(counter []byte) {
	for i := range counter {
		counter[i]++
		if counter[i] != 0 {
			return
		}
	}
}

// NewSalt returns SaltSize fresh random bytes for use with DeriveKey when
// encrypting.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeIO, "cryptutil: generating salt", err)
	}
	return salt, nil
}

// NewIV returns BlockSize fresh random bytes for use as a CBC IV.
func NewIV() ([]byte, error) {
	iv := make([]byte, BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeIO, "cryptutil: generating iv", err)
	}
	return iv, nil
}

// Encrypt pads plaintext with PKCS7 and encrypts it under AES-256-CBC
// using key and iv.
func Encrypt(key [KeySize]byte, iv []byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "cryptutil: building AES cipher", err)
	}
	if len(iv) != BlockSize {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: iv must be BlockSize bytes")
	}

	padded := pkcs7Pad(plaintext, BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// Decrypt reverses Encrypt: AES-256-CBC decryption followed by PKCS7
// unpadding. A malformed padding is reported as a password-class error,
// since the 7z format's only signal for "wrong password" is ciphertext
// that decrypts to invalid padding.
func Decrypt(key [KeySize]byte, iv []byte, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, arcerrors.Wrap(arcerrors.CodeInternal, "cryptutil: building AES cipher", err)
	}
	if len(iv) != BlockSize {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: iv must be BlockSize bytes")
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: ciphertext is not block-aligned")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, BlockSize)
	if err != nil {
		return nil, arcerrors.New(arcerrors.CodePassword, "cryptutil: invalid padding, likely wrong password")
	}
	return unpadded, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: data is not block-aligned")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: invalid PKCS7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, arcerrors.New(arcerrors.CodeInvalidArguments, "cryptutil: invalid PKCS7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}
