// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()-=_+;<>?,.{}[]"
)

var (
	// ErrEmptyCharset is returned when every character class is disabled.
	ErrEmptyCharset = errors.New("no character classes selected")
	// ErrInvalidLength is returned for a negative length.
	ErrInvalidLength = errors.New("invalid length")
)

// CharClasses selects the alphabet used by [PasswordGenerator].
type CharClasses struct {
	Letters  bool
	Capitals bool
	Numbers  bool
	Special  bool
}

func (c CharClasses) alphabet() string {
	var s string
	if c.Letters {
		s += lowerChars
	}
	if c.Capitals {
		s += upperChars
	}
	if c.Numbers {
		s += digitChars
	}
	if c.Special {
		s += specialChars
	}
	return s
}

// PasswordGenerator draws uniformly distributed characters from a
// cryptographic source.
type PasswordGenerator struct {
	rand io.Reader
}

// NewPasswordGenerator returns a generator reading from r, or from
// crypto/rand when r is nil.
func NewPasswordGenerator(r io.Reader) *PasswordGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &PasswordGenerator{rand: r}
}

// RandomString returns length characters drawn from the selected classes.
func (g *PasswordGenerator) RandomString(length int, classes CharClasses) (string, error) {
	if length < 0 {
		return "", ErrInvalidLength
	}

	alphabet := classes.alphabet()
	if alphabet == "" {
		return "", ErrEmptyCharset
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(g.rand, limit)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}

	return string(out), nil
}
