// Package crypto implements field-level encryption for vault values.
//
// Values are encrypted with AES-256-CBC and persisted as a textual envelope
// of the form "<ivHex>:<cipherHex>". Any stored value without the colon
// separator is treated as legacy plaintext and passed through unchanged,
// which keeps records written before encryption was enabled readable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
)

// FieldCipher encrypts and decrypts individual string fields.
//
// The cipher is stateless apart from the key and is safe for concurrent use
// from multiple goroutines; every Encrypt call draws a fresh random IV.
//
// When the configured key is absent or malformed, the cipher degrades to
// pass-through mode: Encrypt and Decrypt return their input unchanged and
// the misconfiguration is reported through the logger. The same applies to
// individual Decrypt failures (corrupt envelope, key mismatch). This keeps
// vault reads available at the cost of possibly exposing raw envelopes.
type FieldCipher struct {
	key    []byte
	logger *slog.Logger
}

// keyHexLength is the required length of the hex-encoded 256-bit key.
const keyHexLength = 64

// NewFieldCipher creates a FieldCipher from a 64-character hexadecimal key.
//
// An empty or malformed key does not fail construction: the returned cipher
// operates in pass-through mode and the configuration error is logged.
func NewFieldCipher(hexKey string, logger *slog.Logger) *FieldCipher {
	if logger == nil {
		logger = slog.Default()
	}

	if len(hexKey) != keyHexLength {
		logger.Error("vault encryption key missing or malformed, field cipher running in pass-through mode",
			slog.Int("key_length", len(hexKey)),
			slog.Int("expected_length", keyHexLength),
		)
		return &FieldCipher{logger: logger}
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		logger.Error("vault encryption key is not valid hex, field cipher running in pass-through mode",
			slog.Any("error", err),
		)
		return &FieldCipher{logger: logger}
	}

	return &FieldCipher{key: key, logger: logger}
}

// Enabled reports whether the cipher has a usable key.
func (c *FieldCipher) Enabled() bool {
	return c.key != nil
}

// Encrypt encrypts a plaintext field value into the "<ivHex>:<cipherHex>"
// envelope. Empty input is returned as-is (absence is not encrypted). In
// pass-through mode, or if IV generation fails, the input is returned
// unchanged.
func (c *FieldCipher) Encrypt(plaintext string) string {
	if plaintext == "" {
		return plaintext
	}
	if c.key == nil {
		return plaintext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		c.logger.Error("field encryption failed, storing value unencrypted", slog.Any("error", err))
		return plaintext
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		c.logger.Error("field encryption failed, storing value unencrypted", slog.Any("error", err))
		return plaintext
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext)
}

// Decrypt reverses Encrypt. Values without the envelope separator are
// treated as stored plaintext and returned unchanged. Decryption failures
// (corrupt hex, wrong IV length, bad padding from a key mismatch) are
// logged and the raw envelope is returned unchanged.
func (c *FieldCipher) Decrypt(value string) string {
	if value == "" {
		return value
	}

	ivHex, cipherHex, found := strings.Cut(value, ":")
	if !found {
		// Legacy plaintext value.
		return value
	}

	if c.key == nil {
		return value
	}

	plaintext, err := c.decryptEnvelope(ivHex, cipherHex)
	if err != nil {
		c.logger.Error("field decryption failed, returning stored value", slog.Any("error", err))
		return value
	}
	return plaintext
}

func (c *FieldCipher) decryptEnvelope(ivHex, cipherHex string) (string, error) {
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", errInvalidEnvelope("iv is not valid hex")
	}
	if len(iv) != aes.BlockSize {
		return "", errInvalidEnvelope("iv has wrong length")
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", errInvalidEnvelope("ciphertext is not valid hex")
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errInvalidEnvelope("ciphertext is not block aligned")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// errInvalidEnvelope is a small helper to build envelope errors.
type envelopeError string

func (e envelopeError) Error() string { return string(e) }

func errInvalidEnvelope(msg string) error {
	return envelopeError("invalid envelope: " + msg)
}

// pkcs7Pad appends PKCS#7 padding up to the block size.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

// pkcs7Unpad validates and strips PKCS#7 padding. A padding violation is
// how a key mismatch usually surfaces in CBC mode.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errInvalidEnvelope("plaintext is not block aligned")
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errInvalidEnvelope("bad padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errInvalidEnvelope("bad padding")
		}
	}
	return data[:len(data)-padding], nil
}
