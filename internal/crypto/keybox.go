// Package crypto decrypts provider credentials stored at rest. The settings
// surface that writes configuration may encrypt apiKey values with AES-GCM
// and mark them with the "enc:" prefix; this subsystem only ever decrypts.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// EncryptedPrefix marks an apiKey value as encrypted at rest.
const EncryptedPrefix = "enc:"

// KeyBox performs AES-GCM encryption and decryption of credential strings.
type KeyBox struct {
	key []byte
}

// NewKeyBox creates a key box. The key must be 16, 24, or 32 bytes for
// AES-128, AES-192, or AES-256.
func NewKeyBox(key []byte) (*KeyBox, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid key size: must be 16, 24, or 32 bytes, got %d", len(key))
	}
	return &KeyBox{key: key}, nil
}

// NewKeyBoxFromBase64 creates a key box from a base64-encoded key, the form
// the key takes in environment configuration.
func NewKeyBoxFromBase64(encodedKey string) (*KeyBox, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("encryption key cannot be empty")
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 key: %w", err)
	}
	return NewKeyBox(key)
}

// IsEncrypted reports whether a stored credential carries the encrypted
// marker.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// Seal encrypts a plaintext credential and returns it in stored form,
// "enc:" followed by base64(nonce || ciphertext).
func (b *KeyBox) Seal(plaintext string) (string, error) {
	gcm, err := b.cipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a credential in stored form. Values without the encrypted
// marker are returned unchanged.
func (b *KeyBox) Open(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	gcm, err := b.cipher()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func (b *KeyBox) cipher() (cipher.AEAD, error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// GenerateKey generates a random key of the given size and returns it
// base64-encoded for storage in environment variables.
func GenerateKey(keySize int) (string, error) {
	switch keySize {
	case 16, 24, 32:
	default:
		return "", fmt.Errorf("invalid key size: must be 16, 24, or 32 bytes")
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
