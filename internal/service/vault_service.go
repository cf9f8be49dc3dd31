package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-pass-vault/internal/backup"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// saltSize is the number of random bytes behind a new vault salt.
const saltSize = 16

// restorePrefix is prepended to the original name when a restored vault
// collides with an existing one.
const restorePrefix = "_"

type vaultService struct {
	storage store.Storage
	hasher  crypto.Hasher
	model   validators.Validator
	policy  validators.Validator
	rand    io.Reader
}

// NewVaultService builds a [VaultService]. A nil random source falls back
// to crypto/rand.
func NewVaultService(storage store.Storage, hasher crypto.Hasher, model, policy validators.Validator, random io.Reader) VaultService {
	if random == nil {
		random = rand.Reader
	}
	return &vaultService{storage: storage, hasher: hasher, model: model, policy: policy, rand: random}
}

func (v *vaultService) CreateVault(ctx context.Context, name, password string) (models.Vault, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if err := v.model.Validate(ctx, models.Vault{Name: name}, validators.FieldName); err != nil {
		return models.Vault{}, mapValidationError(err)
	}
	if err := v.policy.Validate(ctx, password, name); err != nil {
		return models.Vault{}, mapValidationError(err)
	}

	hash, err := v.hasher.Hash(password)
	if err != nil {
		return models.Vault{}, mapCryptoError(err)
	}

	rawSalt := make([]byte, saltSize)
	if _, err = io.ReadFull(v.rand, rawSalt); err != nil {
		return models.Vault{}, fmt.Errorf("%w: generate salt: %w", ErrCrypto, err)
	}

	vault := models.Vault{
		Name:     name,
		PassHash: hash,
		Salt:     base64.StdEncoding.EncodeToString(rawSalt),
	}

	id, err := v.storage.InsertVault(ctx, vault)
	if err != nil {
		return models.Vault{}, mapStoreError(err)
	}
	vault.ID = id

	log.Info().Str("func", "*vaultService.CreateVault").Int64("vault_id", id).Msg("vault created")
	return vault, nil
}

func (v *vaultService) ListVaults(ctx context.Context) ([]models.Vault, error) {
	vaults, err := v.storage.ListVaults(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return vaults, nil
}

func (v *vaultService) DeleteVault(ctx context.Context, name string) error {
	vault, err := v.storage.FindVaultByName(ctx, name)
	if err != nil {
		return mapStoreError(err)
	}

	if err = v.storage.DeleteVaultCascade(ctx, vault.ID); err != nil {
		return mapStoreError(err)
	}

	logger.FromContext(ctx).Info().Str("func", "*vaultService.DeleteVault").Int64("vault_id", vault.ID).Msg("vault deleted")
	return nil
}

func (v *vaultService) Restore(ctx context.Context, path, newName string) (models.Vault, error) {
	log := logger.FromContext(ctx)

	pkg, err := backup.Read(path)
	if err != nil {
		return models.Vault{}, mapBackupError(err)
	}

	name, err := v.restoreName(ctx, pkg.Database.Name, strings.TrimSpace(newName))
	if err != nil {
		return models.Vault{}, err
	}

	// hash and salt come over untouched so the original password still works
	vault := models.Vault{
		Name:            name,
		PassHash:        pkg.Database.PassHash,
		Salt:            pkg.Database.Salt,
		TwoFactorSecret: pkg.Database.TwoFactorSecret,
	}

	err = v.storage.WithinTx(ctx, func(tx store.Storage) error {
		id, err := tx.InsertVault(ctx, vault)
		if err != nil {
			return err
		}
		vault.ID = id

		if len(pkg.Accounts) == 0 {
			return nil
		}

		accounts := make([]models.Account, len(pkg.Accounts))
		for i, a := range pkg.Accounts {
			a.ID = 0
			a.VaultID = id
			accounts[i] = a
		}
		_, err = tx.InsertAccounts(ctx, accounts)
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*vaultService.Restore").Msg("restore rolled back")
		return models.Vault{}, mapStoreError(err)
	}

	log.Info().Str("func", "*vaultService.Restore").Int64("vault_id", vault.ID).Int("accounts", len(pkg.Accounts)).Msg("vault restored")
	return vault, nil
}

// restoreName picks the name a restored vault is stored under.
func (v *vaultService) restoreName(ctx context.Context, original, requested string) (string, error) {
	if requested != "" {
		if err := v.model.Validate(ctx, models.Vault{Name: requested}, validators.FieldName); err != nil {
			return "", mapValidationError(err)
		}
		return requested, v.ensureFree(ctx, requested)
	}

	err := v.ensureFree(ctx, original)
	if !errors.Is(err, ErrVaultAlreadyExists) {
		return original, err
	}

	fallback := restorePrefix + original
	return fallback, v.ensureFree(ctx, fallback)
}

func (v *vaultService) ensureFree(ctx context.Context, name string) error {
	_, err := v.storage.FindVaultByName(ctx, name)
	switch {
	case err == nil:
		return ErrVaultAlreadyExists
	case errors.Is(err, store.ErrVaultNotFound):
		return nil
	default:
		return mapStoreError(err)
	}
}
