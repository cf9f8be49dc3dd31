package crypto

import (
	"crypto/sha1" //nolint:gosec // PBKDF2-HMAC-SHA1 is the stored vault format
	"crypto/sha256"
	"fmt"
	"hash"
)

// PRF names the HMAC hash used inside PBKDF2. The empty PRF is SHA-1,
// the format of existing vaults.
type PRF string

const (
	PRFSHA256 PRF = "sha256"
	PRFSHA1   PRF = "sha1"
)

func (p PRF) hashFunc() (func() hash.Hash, error) {
	switch p {
	case PRFSHA1, "":
		return sha1.New, nil
	case PRFSHA256:
		return sha256.New, nil
	default:
		return nil, fmt.Errorf("%w: unknown prf %q", ErrInvalidArgument, string(p))
	}
}
