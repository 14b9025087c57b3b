package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// EncryptionMethod defines how data at rest is encrypted
type EncryptionMethod string

const (
	EncryptionNone       EncryptionMethod = "none"
	EncryptionPassphrase EncryptionMethod = "passphrase"
)

// Argon2id parameters for passphrase key derivation
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltSize     = 16
)

// EncryptionManager provides general-purpose encryption for pecha data
// (credentials today; reusable for other stores).
type EncryptionManager struct {
	method     EncryptionMethod
	passphrase string
	salt       []byte
	aesKey     []byte
}

// NewEncryptionManager creates a new encryption manager
func NewEncryptionManager(method EncryptionMethod) *EncryptionManager {
	return &EncryptionManager{method: method}
}

// SetPassphrase sets the passphrase used for key derivation
func (e *EncryptionManager) SetPassphrase(passphrase string) {
	e.passphrase = passphrase
	e.aesKey = nil // force re-derivation
}

// Initialize derives the AES key from the passphrase and salt.
// For the passphrase method a salt must be set (or generated) first.
func (e *EncryptionManager) Initialize() error {
	switch e.method {
	case EncryptionNone:
		return nil

	case EncryptionPassphrase:
		if e.passphrase == "" {
			return fmt.Errorf("credentials are encrypted - passphrase required")
		}
		if len(e.salt) == 0 {
			salt := make([]byte, saltSize)
			if _, err := io.ReadFull(rand.Reader, salt); err != nil {
				return fmt.Errorf("failed to generate salt: %w", err)
			}
			e.salt = salt
		}
		e.aesKey = argon2.IDKey([]byte(e.passphrase), e.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
		return nil

	default:
		return fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// SetSalt sets the key-derivation salt loaded from disk
func (e *EncryptionManager) SetSalt(salt []byte) {
	e.salt = salt
	e.aesKey = nil
}

// Salt returns the key-derivation salt (persisted alongside the ciphertext)
func (e *EncryptionManager) Salt() []byte {
	return e.salt
}

// Encrypt encrypts data using the configured method.
// Returns the original data unchanged if the method is EncryptionNone.
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	switch e.method {
	case EncryptionNone:
		return plaintext, nil

	case EncryptionPassphrase:
		if e.aesKey == nil {
			return nil, fmt.Errorf("encryption manager not initialized")
		}
		return encryptAESGCM(plaintext, e.aesKey)

	default:
		return nil, fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// Decrypt decrypts data using the configured method
func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	switch e.method {
	case EncryptionNone:
		return ciphertext, nil

	case EncryptionPassphrase:
		if e.aesKey == nil {
			return nil, fmt.Errorf("encryption manager not initialized")
		}
		return decryptAESGCM(ciphertext, e.aesKey)

	default:
		return nil, fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// GetMethod returns the current encryption method
func (e *EncryptionManager) GetMethod() EncryptionMethod {
	return e.method
}

// encryptAESGCM encrypts data using AES-256-GCM
// Format: [nonce (12 bytes)][ciphertext + tag]
func encryptAESGCM(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return ciphertext, nil
}

// decryptAESGCM decrypts data using AES-256-GCM
// Expects format: [nonce (12 bytes)][ciphertext + tag]
func decryptAESGCM(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce := ciphertext[:nonceSize]
	ciphertextData := ciphertext[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertextData, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
