package store

import (
	"context"

	"github.com/MKhiriev/go-pass-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_mock.go -package=mock

// Storage persists vaults and their (already encrypted) accounts.
//
// Implementations never see plaintext account fields. Every account
// mutation is scoped by both id and vault id.
type Storage interface {
	FindVaultByName(ctx context.Context, name string) (models.Vault, error)
	// InsertVault returns the assigned id; a taken name yields
	// ErrVaultAlreadyExists.
	InsertVault(ctx context.Context, vault models.Vault) (int64, error)
	// UpdateVault rewrites name, hash and second-factor secret. The salt
	// column is never updated.
	UpdateVault(ctx context.Context, vault models.Vault) error
	// DeleteVaultCascade removes the vault and all its accounts.
	DeleteVaultCascade(ctx context.Context, vaultID int64) error
	ListVaults(ctx context.Context) ([]models.Vault, error)

	ListAccounts(ctx context.Context, vaultID int64) ([]models.Account, error)
	// InsertAccounts stores accounts as given (ID ignored) and returns the
	// assigned ids in input order. Multiple accounts are inserted atomically.
	InsertAccounts(ctx context.Context, accounts []models.Account) ([]int64, error)
	UpdateAccount(ctx context.Context, account models.Account) error
	DeleteAccount(ctx context.Context, vaultID, accountID int64) error

	// WithinTx runs fn against a transactional view of the storage. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(tx Storage) error) error
}
