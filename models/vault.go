package models

// Vault is a named, independently unlockable credential container.
//
// JSON field names follow the backup package format so that packages written
// by older tooling decode unchanged.
type Vault struct {
	// ID is the storage-assigned identifier.
	ID int64 `json:"Id" db:"id"`

	// Name is unique across the store and is what users log in with.
	Name string `json:"Name" db:"name" validate:"required,max=128"`

	// PassHash is base64(salt || digest) of the master password.
	PassHash string `json:"Passhash" db:"pass_hash" validate:"required,base64"`

	// Salt feeds key derivation. It is fixed at creation and never
	// rewritten, not even on rename or password change.
	Salt string `json:"Salt" db:"salt" validate:"required,min=8"`

	// TwoFactorSecret is the base32 TOTP secret; empty means the second
	// factor is disabled.
	TwoFactorSecret string `json:"TwoFactorSecret" db:"two_factor_secret"`
}

// HasSecondFactor reports whether logging in requires a one-time code.
func (v Vault) HasSecondFactor() bool {
	return v.TwoFactorSecret != ""
}

// TableName returns the name of the database table
// associated with the Vault model.
func (v Vault) TableName() string {
	return "vaults"
}
