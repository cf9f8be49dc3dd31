// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Mode selects the block cipher mode used for record fields.
type Mode string

const (
	// ModeCBC is AES-256-CBC with PKCS#7 padding; blob = IV(16) || ciphertext.
	ModeCBC Mode = "cbc"
	// ModeGCM is AES-256-GCM; blob = nonce(12) || ciphertext || tag.
	ModeGCM Mode = "gcm"
)

// CipherFactory builds a [Cipher] for a freshly derived key.
type CipherFactory func(key []byte) (Cipher, error)

// NewCipher constructs a [Cipher] in the given mode. The key must be
// KeySize bytes long; the cipher keeps its own copy, so the caller may wipe
// key afterwards. A nil random source falls back to crypto/rand.
func NewCipher(mode Mode, key []byte, random io.Reader) (Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidArgument, KeySize, len(key))
	}
	if random == nil {
		random = rand.Reader
	}

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)

	switch mode {
	case ModeCBC, "":
		return newCBCCipher(keyCopy, random)
	case ModeGCM:
		return newGCMCipher(keyCopy, random)
	default:
		return nil, fmt.Errorf("%w: unknown cipher mode %q", ErrInvalidArgument, string(mode))
	}
}

// NewCipherFactory validates mode once and returns a factory that binds
// mode and random to every cipher it builds.
func NewCipherFactory(mode Mode, random io.Reader) (CipherFactory, error) {
	switch mode {
	case ModeCBC, ModeGCM, "":
	default:
		return nil, fmt.Errorf("%w: unknown cipher mode %q", ErrInvalidArgument, string(mode))
	}

	return func(key []byte) (Cipher, error) {
		return NewCipher(mode, key, random)
	}, nil
}

// byteCipher is the raw half of [Cipher]; the string helpers below are
// shared by both modes.
type byteCipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(blob []byte) ([]byte, error)
}

func encryptString(c byteCipher, plaintext string) (string, error) {
	blob, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

func decryptString(c byteCipher, encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrDecryptionFailed, err)
	}

	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
