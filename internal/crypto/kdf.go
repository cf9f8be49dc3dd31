package crypto

import (
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived key length (AES-256).
	KeySize = 32
	// MinSaltLength is the shortest vault salt accepted by DeriveKey.
	MinSaltLength = 8
	// DefaultKDFIterations is the PBKDF2 work factor for record keys.
	DefaultKDFIterations = 10000
)

type pbkdf2Deriver struct {
	iterations int
	prf        func() hash.Hash
}

// NewKeyDeriver constructs a PBKDF2 [KeyDeriver]. The vault salt is used as
// its UTF-8 bytes, which keeps keys compatible with salts stored as text by
// older tooling.
func NewKeyDeriver(iterations int, prf PRF) (KeyDeriver, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", ErrInvalidArgument)
	}

	h, err := prf.hashFunc()
	if err != nil {
		return nil, err
	}

	return &pbkdf2Deriver{iterations: iterations, prf: h}, nil
}

func (d *pbkdf2Deriver) DeriveKey(password, salt string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidArgument)
	}
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: salt shorter than %d bytes", ErrInvalidArgument, MinSaltLength)
	}

	return pbkdf2.Key([]byte(password), []byte(salt), d.iterations, KeySize, d.prf), nil
}
