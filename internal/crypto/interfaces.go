package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// Hasher produces and checks the stored master-password hash.
//
// The encoded form is base64(salt || digest) where salt is SaltSize random
// bytes, so two hashes of the same input never match textually.
type Hasher interface {
	// Hash returns the encoded hash of input. Empty input is rejected with
	// ErrInvalidArgument.
	Hash(input string) (string, error)

	// Verify reports whether input matches encoded. Malformed encodings,
	// empty input and mismatches all yield false; Verify never panics.
	Verify(encoded, input string) bool
}

// KeyDeriver turns a master password and the vault salt into the symmetric
// key used for record encryption. The same inputs always yield the same key.
type KeyDeriver interface {
	DeriveKey(password, salt string) ([]byte, error)
}

// Cipher encrypts individual record fields with a key fixed at construction.
//
// Every Encrypt call draws a fresh IV/nonce, which is prepended to the
// returned blob.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(blob []byte) ([]byte, error)

	// EncryptString and DecryptString wrap Encrypt and Decrypt with standard
	// base64 so the result can be stored in text columns.
	EncryptString(plaintext string) (string, error)
	DecryptString(encoded string) (string, error)

	// Destroy wipes the key copy held by the cipher. Any later call fails
	// with ErrCipherDestroyed.
	Destroy()
}
