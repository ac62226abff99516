package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// keySalt is a fixed application salt for key derivation. Values encrypted
// with one passphrase can only be decrypted with the same passphrase.
var keySalt = []byte("localpulse.token.v1")

const pbkdf2Iterations = 10000

func deriveKey(passphrase string) []byte {
	return pbkdf2.Key([]byte(passphrase), keySalt, pbkdf2Iterations, 32, sha256.New)
}

// EncryptString encrypts a value with AES-256-GCM using a key derived from
// the passphrase and returns a hex-encoded nonce||ciphertext string.
func EncryptString(value string, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is required")
	}

	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(value), nil)
	return hex.EncodeToString(ciphertext), nil
}

// DecryptFromHexString decrypts a hex-encoded nonce||ciphertext string
// produced by EncryptString.
func DecryptFromHexString(encrypted string, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("passphrase is required")
	}

	raw, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("invalid hex string: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
