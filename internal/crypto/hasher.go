// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the random salt embedded in every hash.
	SaltSize = 16
	// DefaultHashIterations is the PBKDF2 work factor for stored hashes.
	DefaultHashIterations = 50000
	// DefaultHashLength is the digest length of a stored hash; the encoded
	// blob is SaltSize bytes longer.
	DefaultHashLength = 32
)

// pbkdf2Hasher is the private implementation of [Hasher].
type pbkdf2Hasher struct {
	iterations int
	length     int
	prf        func() hash.Hash
	rand       io.Reader
}

// NewHasher constructs a [Hasher] deriving digests of length bytes with the
// given PBKDF2 iteration count and PRF. Encoded hashes are
// base64(salt || digest), SaltSize+length bytes before encoding.
//
// A nil random source falls back to crypto/rand. Non-positive iterations
// or length fail with ErrInvalidArgument.
func NewHasher(iterations, length int, prf PRF, random io.Reader) (Hasher, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidArgument)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: hash length must be positive", ErrInvalidArgument)
	}

	h, err := prf.hashFunc()
	if err != nil {
		return nil, err
	}

	if random == nil {
		random = rand.Reader
	}

	return &pbkdf2Hasher{
		iterations: iterations,
		length:     length,
		prf:        h,
		rand:       random,
	}, nil
}

// Hash implements [Hasher].
func (p *pbkdf2Hasher) Hash(input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(p.rand, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(input), salt, p.iterations, p.length, p.prf)

	return base64.StdEncoding.EncodeToString(append(salt, digest...)), nil
}

// Verify implements [Hasher]. The digest length is taken from the decoded
// hash, so hashes written with another length still verify.
func (p *pbkdf2Hasher) Verify(encoded, input string) bool {
	if input == "" || encoded == "" {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) <= SaltSize {
		return false
	}

	salt, want := raw[:SaltSize], raw[SaltSize:]
	got := pbkdf2.Key([]byte(input), salt, p.iterations, len(want), p.prf)

	return subtle.ConstantTimeCompare(got, want) == 1
}
