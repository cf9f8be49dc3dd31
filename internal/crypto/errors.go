package crypto

import "errors"

var (
	// ErrInvalidArgument is returned for empty passwords, short salts,
	// non-positive iteration counts and keys of the wrong length.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCiphertextTooShort is returned when a blob is shorter than its
	// IV or nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrDecryptionFailed covers wrong keys, corrupt blobs, broken padding
	// and failed authentication tags.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrCipherDestroyed is returned by a cipher after Destroy.
	ErrCipherDestroyed = errors.New("cipher destroyed")
)
