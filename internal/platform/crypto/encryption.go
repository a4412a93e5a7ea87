package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidKey         = errors.New("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// FieldCipher seals individual profile columns with AES-256-GCM. Without a
// key it stores values as-is so development databases stay readable.
type FieldCipher struct {
	aead cipher.AEAD
}

func New(key string) (*FieldCipher, error) {
	if key == "" {
		return &FieldCipher{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, fmt.Errorf("crypto: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

func (c *FieldCipher) Configured() bool {
	return c != nil && c.aead != nil
}

func (c *FieldCipher) Seal(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !c.Configured() {
		return plain, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *FieldCipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if !c.Configured() {
		return sealed, nil
	}
	size := c.aead.NonceSize()
	if len(sealed) < size {
		return nil, ErrCiphertextTooShort
	}
	return c.aead.Open(nil, sealed[:size], sealed[size:], nil)
}

func (c *FieldCipher) SealString(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	return c.Seal([]byte(value))
}

func (c *FieldCipher) OpenString(value []byte) (string, error) {
	plain, err := c.Open(value)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
