package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pass-vault/models"
)

// Session is the unlock-and-use lifecycle of a single vault.
//
// A Session starts logged out. Login moves it to logged in, or to awaiting
// second factor when the vault has a TOTP secret; Logout and Close return it
// to logged out and wipe all key material. Every account operation requires
// the logged in state and fails with ErrInvalidState otherwise.
//
// Business outcomes of Login are reported through [models.LoginResult]; the
// returned error is non-nil only together with models.LoginError.
type Session interface {
	// Login checks password against the named vault.
	Login(ctx context.Context, name, password string) (models.LoginResult, error)

	// CompleteSecondFactor finishes a login that returned
	// models.LoginNeedsSecondFactor. It reports whether code was accepted.
	// Too many wrong codes drop the session back to logged out and return
	// ErrTooManyAttempts.
	CompleteSecondFactor(ctx context.Context, code string) (bool, error)

	// Logout wipes session state. It reports false when already logged out.
	Logout() bool

	// Close is Logout for deferred cleanup; it is safe to call repeatedly.
	Close()

	State() models.State

	// Name returns the name of the unlocked vault.
	Name() (string, error)

	// SecondFactorSecret returns the unlocked vault's TOTP secret, empty
	// when the second factor is disabled.
	SecondFactorSecret() (string, error)

	// GetAccounts returns every account of the vault, decrypted.
	GetAccounts(ctx context.Context) ([]models.Account, error)

	// Add encrypts and stores account, returning it with its new ID.
	Add(ctx context.Context, account models.Account) (models.Account, error)

	// Update re-encrypts and stores account. Only accounts of the unlocked
	// vault can be updated.
	Update(ctx context.Context, account models.Account) error

	Delete(ctx context.Context, accountID int64) error

	// ChangePassword re-hashes the master password and re-encrypts every
	// account under the new key in one storage transaction. The session
	// switches to the new key only after the transaction commits.
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	// EnableSecondFactor generates, stores and returns a new TOTP secret.
	EnableSecondFactor(ctx context.Context) (string, error)

	// DisableSecondFactor clears the TOTP secret.
	DisableSecondFactor(ctx context.Context) error

	// RenameVault changes the vault name. The salt is never touched.
	RenameVault(ctx context.Context, newName string) error

	// Backup writes the vault and its accounts, as stored, to path.
	Backup(ctx context.Context, path string) error

	// Restore imports a backup package as a new vault. It requires the
	// logged out state.
	Restore(ctx context.Context, path, newName string) (models.Vault, error)

	// LockIfIdle logs the session out when it is not logged out and has
	// seen no activity for idle as of now. It reports whether it did.
	LockIfIdle(now time.Time, idle time.Duration) bool
}

// VaultService manages vaults as a whole, outside of any session.
type VaultService interface {
	// CreateVault stores a new vault protected by password. The salt is
	// random and fixed for the lifetime of the vault.
	CreateVault(ctx context.Context, name, password string) (models.Vault, error)

	// ListVaults returns all vaults ordered by name.
	ListVaults(ctx context.Context) ([]models.Vault, error)

	// DeleteVault removes the named vault together with its accounts.
	DeleteVault(ctx context.Context, name string) error

	// Restore imports the backup package at path as a new vault named
	// newName. An empty newName keeps the original name, falling back to
	// "_" + original when that is taken.
	Restore(ctx context.Context, path, newName string) (models.Vault, error)
}
