// Package aescrypto implements the AES-128-ECB-with-zero-padding envelope
// both wire protocols use for their encrypted frame bodies. Go's
// crypto/cipher deliberately ships no ECB mode (it's an unsafe default for
// general use), and none of this corpus's dependencies provide one either
// (github.com/xzhiot's crypto helper wraps AES-GCM, not ECB) — the block
// loop below is hand-rolled for that reason, calling the crypto/aes block
// cipher's Encrypt/Decrypt directly one 16-byte block at a time, with no
// crypto/cipher mode wrapper.
package aescrypto

import (
	"crypto/aes"

	"github.com/pkg/errors"
)

const keySize = 16

// NormalizeKey trims or zero-pads key to exactly 16 bytes and reports
// whether truncation/padding was needed. Callers must opt in to this
// leniency explicitly; EncryptECB/DecryptECB reject any key whose length
// isn't already 16.
func NormalizeKey(key []byte) (normalized []byte, adjusted bool) {
	if len(key) == keySize {
		return key, false
	}

	out := make([]byte, keySize)
	n := copy(out, key)
	return out, n != keySize || len(key) != keySize
}

// zeroPad rounds data up to a multiple of the AES block size with trailing
// zero bytes; this is non-standard zero padding, not PKCS#7 — the
// trailing bytes are literal zeros, and decrypt does not attempt to strip
// them; callers know the true payload length from the
// protocol's own length field).
func zeroPad(data []byte) []byte {
	rem := len(data) % aes.BlockSize
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+(aes.BlockSize-rem))
	copy(padded, data)
	return padded
}

// EncryptECB zero-pads plaintext to a block-size multiple and encrypts it
// in ECB mode (each block enciphered independently, no chaining) under a
// strict 16-byte key. Ciphertext length equals the padded plaintext
// length.
func EncryptECB(key, plaintext []byte) ([]byte, error) {
	if len(key) != keySize {
		return nil, errors.Errorf("aescrypto: key must be %d bytes, got %d", keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aescrypto: new cipher")
	}

	padded := zeroPad(plaintext)
	out := make([]byte, len(padded))
	for off := 0; off < len(padded); off += aes.BlockSize {
		block.Encrypt(out[off:off+aes.BlockSize], padded[off:off+aes.BlockSize])
	}
	return out, nil
}

// DecryptECB is the inverse of EncryptECB: ciphertext must already be a
// block-size multiple. The result still carries the zero padding; callers
// slice it off using a length known from the protocol frame.
func DecryptECB(key, ciphertext []byte) ([]byte, error) {
	if len(key) != keySize {
		return nil, errors.Errorf("aescrypto: key must be %d bytes, got %d", keySize, len(key))
	}
	if len(ciphertext)%aes.BlockSize != 0 || len(ciphertext) == 0 {
		return nil, errors.Errorf("aescrypto: ciphertext length %d is not a positive multiple of %d", len(ciphertext), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aescrypto: new cipher")
	}

	out := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += aes.BlockSize {
		block.Decrypt(out[off:off+aes.BlockSize], ciphertext[off:off+aes.BlockSize])
	}
	return out, nil
}
