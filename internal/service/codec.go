package service

import (
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/models"
)

// AccountCodec converts accounts between their plaintext and stored forms
// with one session cipher. Title, Username, Password, Description and
// TwoFactorSecret are encrypted; ID and Type pass through unchanged and
// VaultID is always set to the codec's vault.
type AccountCodec struct {
	cipher  crypto.Cipher
	vaultID int64
}

func NewAccountCodec(cipher crypto.Cipher, vaultID int64) *AccountCodec {
	return &AccountCodec{cipher: cipher, vaultID: vaultID}
}

type accountField struct {
	name  string
	value func(a *models.Account) *string
}

var encryptedFields = []accountField{
	{"title", func(a *models.Account) *string { return &a.Title }},
	{"username", func(a *models.Account) *string { return &a.Username }},
	{"password", func(a *models.Account) *string { return &a.Password }},
	{"description", func(a *models.Account) *string { return &a.Description }},
	{"two factor secret", func(a *models.Account) *string { return &a.TwoFactorSecret }},
}

// Encrypt returns the stored form of account.
func (c *AccountCodec) Encrypt(account models.Account) (models.Account, error) {
	if c == nil || c.cipher == nil {
		return models.Account{}, ErrInvalidState
	}

	account.VaultID = c.vaultID
	for _, f := range encryptedFields {
		field := f.value(&account)
		enc, err := c.cipher.EncryptString(*field)
		if err != nil {
			return models.Account{}, fmt.Errorf("%w: encrypt %s: %w", ErrCrypto, f.name, err)
		}
		*field = enc
	}

	return account, nil
}

// Decrypt returns the plaintext form of a stored account.
func (c *AccountCodec) Decrypt(account models.Account) (models.Account, error) {
	if c == nil || c.cipher == nil {
		return models.Account{}, ErrInvalidState
	}

	account.VaultID = c.vaultID
	for _, f := range encryptedFields {
		field := f.value(&account)
		plain, err := c.cipher.DecryptString(*field)
		if err != nil {
			return models.Account{}, fmt.Errorf("%w: decrypt %s: %w", ErrCrypto, f.name, err)
		}
		*field = plain
	}

	return account, nil
}
