package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"fmt"
	"io"
	"sync"

	"github.com/awnumar/memguard"
)

type cbcCipher struct {
	mu    sync.RWMutex
	key   []byte
	block cipher.Block
	rand  io.Reader
}

func newCBCCipher(key []byte, random io.Reader) (*cbcCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return &cbcCipher{key: key, block: block, rand: random}, nil
}

func (c *cbcCipher) Encrypt(plaintext []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.block == nil {
		return nil, ErrCipherDestroyed
	}

	blob := make([]byte, aes.BlockSize, aes.BlockSize+len(plaintext)+aes.BlockSize)
	if _, err := io.ReadFull(c.rand, blob); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, blob[:aes.BlockSize]).CryptBlocks(ciphertext, padded)

	return append(blob, ciphertext...), nil
}

func (c *cbcCipher) Decrypt(blob []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.block == nil {
		return nil, ErrCipherDestroyed
	}
	if len(blob) < aes.BlockSize {
		return nil, ErrCiphertextTooShort
	}

	iv, ciphertext := blob[:aes.BlockSize], blob[aes.BlockSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrDecryptionFailed)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, ok := pkcs7Unpad(plaintext, aes.BlockSize)
	if !ok {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryptionFailed)
	}
	return unpadded, nil
}

func (c *cbcCipher) EncryptString(plaintext string) (string, error) {
	return encryptString(c, plaintext)
}

func (c *cbcCipher) DecryptString(encoded string) (string, error) {
	return decryptString(c, encoded)
}

func (c *cbcCipher) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	memguard.WipeBytes(c.key)
	c.key = nil
	c.block = nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

// pkcs7Unpad checks every padding byte without early exit.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}

	pad := data[len(data)-n:]
	if subtle.ConstantTimeCompare(pad, bytes.Repeat([]byte{byte(n)}, n)) != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}
