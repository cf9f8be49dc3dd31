package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
	"sync"

	"github.com/awnumar/memguard"
)

type gcmCipher struct {
	mu   sync.RWMutex
	key  []byte
	aead cipher.AEAD
	rand io.Reader
}

func newGCMCipher(key []byte, random io.Reader) (*gcmCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &gcmCipher{key: key, aead: gcm, rand: random}, nil
}

// Encrypt seals plaintext; blob = nonce || ciphertext.
func (c *gcmCipher) Encrypt(plaintext []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.aead == nil {
		return nil, ErrCipherDestroyed
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *gcmCipher) Decrypt(blob []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.aead == nil {
		return nil, ErrCipherDestroyed
	}

	nonceSize := c.aead.NonceSize()
	if len(blob) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	// Split the blob into nonce and actual ciphertext.
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func (c *gcmCipher) EncryptString(plaintext string) (string, error) {
	return encryptString(c, plaintext)
}

func (c *gcmCipher) DecryptString(encoded string) (string, error) {
	return decryptString(c, encoded)
}

func (c *gcmCipher) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	memguard.WipeBytes(c.key)
	c.key = nil
	c.aead = nil
}
