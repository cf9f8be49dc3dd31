package models

// Account is one credential record inside a vault.
//
// Title, Username, Password, Description and TwoFactorSecret are ciphertext
// at rest and plaintext only while a session holds them. Type is a plain
// category tag and is never encrypted.
type Account struct {
	ID      int64 `json:"Id" db:"id"`
	VaultID int64 `json:"DbID" db:"vault_id"`

	Title           string `json:"Title" db:"title" validate:"required"`
	Username        string `json:"Username" db:"username"`
	Password        string `json:"Password" db:"password"`
	Description     string `json:"Description" db:"description"`
	Type            string `json:"Type" db:"type" validate:"max=64"`
	TwoFactorSecret string `json:"TwoFactorSecret" db:"two_factor_secret"`
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
