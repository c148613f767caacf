package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
)

const gcmNonceSize = 12

// AESGCMSealer encrypts credential secrets with AES-256-GCM. The key is the
// SHA-256 of the JWT secret; the 16-byte tag is appended to the ciphertext.
type AESGCMSealer struct {
	aead cipher.AEAD
}

func NewAESGCMSealer(secret string) (*AESGCMSealer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("encryption secret is required")
	}
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return &AESGCMSealer{aead: aead}, nil
}

func (s *AESGCMSealer) Seal(plaintext string) ([]byte, []byte, error) {
	iv := make([]byte, gcmNonceSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}
	return s.aead.Seal(nil, iv, []byte(plaintext), nil), iv, nil
}

func (s *AESGCMSealer) Open(ciphertext, iv []byte) (string, error) {
	if len(iv) != gcmNonceSize {
		return "", fmt.Errorf("invalid iv length %d", len(iv))
	}
	plain, err := s.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plain), nil
}
