// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-pass-vault/internal/backup"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/twofactor"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

// dummyHash is verified against when no real hash is at hand, so that
// lockout and unknown vaults cost as much as a wrong password.
var dummyHash = base64.StdEncoding.EncodeToString(make([]byte, crypto.SaltSize+crypto.DefaultHashLength))

// SessionLimits bounds failed attempts.
type SessionLimits struct {
	// MaxLoginAttempts wrong passwords are tolerated; once the counter
	// exceeds it every Login reports models.LoginTooManyAttempts.
	MaxLoginAttempts int
	// MaxSecondFactorAttempts wrong codes end a pending login. 0 means
	// unlimited.
	MaxSecondFactorAttempts int
	// LockoutDuration releases the login lockout this long after the last
	// failure. 0 keeps it for the lifetime of the session.
	LockoutDuration time.Duration
}

// vaultSession implements [Session]. All state is guarded by mu since the
// auto-lock worker logs out from its own goroutine.
type vaultSession struct {
	storage   store.Storage
	hasher    crypto.Hasher
	deriver   crypto.KeyDeriver
	newCipher crypto.CipherFactory
	totp      twofactor.Provider
	model     validators.Validator
	policy    validators.Validator
	vaults    VaultService
	limits    SessionLimits
	now       func() time.Time

	mu           sync.Mutex
	state        models.State
	vault        models.Vault
	password     *memguard.LockedBuffer
	key          *memguard.LockedBuffer
	cipher       crypto.Cipher
	failedLogins int
	failedCodes  int
	lastFailure  time.Time
	lastActivity time.Time
}

func (s *vaultSession) Login(ctx context.Context, name, password string) (models.LoginResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)

	if s.state != models.StateLoggedOut {
		return models.LoginError, ErrInvalidState
	}

	if s.limits.LockoutDuration > 0 && s.failedLogins > 0 && s.now().Sub(s.lastFailure) >= s.limits.LockoutDuration {
		s.failedLogins = 0
	}

	vault, err := s.storage.FindVaultByName(ctx, name)

	if s.failedLogins > s.limits.MaxLoginAttempts {
		hash := dummyHash
		if err == nil {
			hash = vault.PassHash
		}
		s.hasher.Verify(hash, password)
		log.Warn().Str("func", "*vaultSession.Login").Int("failed", s.failedLogins).Msg("login rejected: too many attempts")
		return models.LoginTooManyAttempts, nil
	}

	if err != nil {
		if errors.Is(err, store.ErrVaultNotFound) {
			s.hasher.Verify(dummyHash, password)
			return models.LoginNotFound, nil
		}
		log.Err(err).Str("func", "*vaultSession.Login").Msg("error loading vault")
		return models.LoginError, mapStoreError(err)
	}

	if !s.hasher.Verify(vault.PassHash, password) {
		s.failedLogins++
		s.lastFailure = s.now()
		log.Info().Str("func", "*vaultSession.Login").Int("failed", s.failedLogins).Msg("wrong password")
		return models.LoginWrongPassword, nil
	}

	if err = s.unlock(vault, password); err != nil {
		log.Err(err).Str("func", "*vaultSession.Login").Msg("error deriving vault key")
		return models.LoginError, err
	}
	s.failedLogins = 0

	if vault.HasSecondFactor() {
		s.state = models.StateAwaitingSecondFactor
		return models.LoginNeedsSecondFactor, nil
	}

	s.state = models.StateLoggedIn
	log.Debug().Str("func", "*vaultSession.Login").Int64("vault_id", vault.ID).Msg("vault unlocked")
	return models.LoginSuccess, nil
}

// unlock derives the vault key and caches it together with the password.
func (s *vaultSession) unlock(vault models.Vault, password string) error {
	key, cipher, err := s.deriveCipher(password, vault.Salt)
	if err != nil {
		return err
	}

	s.vault = vault
	s.key = key
	s.cipher = cipher
	s.password = memguard.NewBufferFromBytes([]byte(password))
	s.failedCodes = 0
	s.lastActivity = s.now()
	return nil
}

func (s *vaultSession) deriveCipher(password, salt string) (*memguard.LockedBuffer, crypto.Cipher, error) {
	raw, err := s.deriver.DeriveKey(password, salt)
	if err != nil {
		return nil, nil, mapCryptoError(err)
	}
	key := memguard.NewBufferFromBytes(raw)

	cipher, err := s.newCipher(key.Bytes())
	if err != nil {
		key.Destroy()
		return nil, nil, mapCryptoError(err)
	}

	return key, cipher, nil
}

func (s *vaultSession) CompleteSecondFactor(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateAwaitingSecondFactor {
		return false, ErrInvalidState
	}

	if s.totp.ValidateCode(s.vault.TwoFactorSecret, strings.TrimSpace(code)) {
		s.state = models.StateLoggedIn
		s.failedCodes = 0
		s.lastActivity = s.now()
		return true, nil
	}

	s.failedCodes++
	if s.limits.MaxSecondFactorAttempts > 0 && s.failedCodes >= s.limits.MaxSecondFactorAttempts {
		logger.FromContext(ctx).Warn().Str("func", "*vaultSession.CompleteSecondFactor").Msg("too many wrong codes, session dropped")
		s.clear()
		return false, ErrTooManyAttempts
	}

	return false, nil
}

func (s *vaultSession) Logout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.StateLoggedOut {
		return false
	}
	s.clear()
	return true
}

func (s *vaultSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// clear wipes all key material and returns to the logged out state. The
// failed login counter survives so that logging out cannot lift a lockout.
func (s *vaultSession) clear() {
	if s.cipher != nil {
		s.cipher.Destroy()
		s.cipher = nil
	}
	if s.key != nil {
		s.key.Destroy()
		s.key = nil
	}
	if s.password != nil {
		s.password.Destroy()
		s.password = nil
	}
	s.vault = models.Vault{}
	s.failedCodes = 0
	s.lastActivity = time.Time{}
	s.state = models.StateLoggedOut
}

func (s *vaultSession) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// authenticated must be called with mu held.
func (s *vaultSession) authenticated() error {
	if s.state != models.StateLoggedIn {
		return ErrInvalidState
	}
	s.lastActivity = s.now()
	return nil
}

func (s *vaultSession) codec() *AccountCodec {
	return NewAccountCodec(s.cipher, s.vault.ID)
}

func (s *vaultSession) Name() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return "", err
	}
	return s.vault.Name, nil
}

func (s *vaultSession) SecondFactorSecret() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return "", err
	}
	return s.vault.TwoFactorSecret, nil
}

func (s *vaultSession) GetAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return nil, err
	}

	stored, err := s.storage.ListAccounts(ctx, s.vault.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	codec := s.codec()
	accounts := make([]models.Account, 0, len(stored))
	for _, a := range stored {
		plain, err := codec.Decrypt(a)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", a.ID, err)
		}
		accounts = append(accounts, plain)
	}

	return accounts, nil
}

func (s *vaultSession) Add(ctx context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return models.Account{}, err
	}
	if err := s.model.Validate(ctx, account); err != nil {
		return models.Account{}, mapValidationError(err)
	}

	enc, err := s.codec().Encrypt(account)
	if err != nil {
		return models.Account{}, err
	}

	ids, err := s.storage.InsertAccounts(ctx, []models.Account{enc})
	if err != nil {
		return models.Account{}, mapStoreError(err)
	}
	if len(ids) != 1 {
		return models.Account{}, fmt.Errorf("%w: expected 1 id, got %d", ErrStorage, len(ids))
	}

	account.ID = ids[0]
	account.VaultID = s.vault.ID
	return account, nil
}

func (s *vaultSession) Update(ctx context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return err
	}
	if err := s.model.Validate(ctx, account); err != nil {
		return mapValidationError(err)
	}

	enc, err := s.codec().Encrypt(account)
	if err != nil {
		return err
	}

	return mapStoreError(s.storage.UpdateAccount(ctx, enc))
}

func (s *vaultSession) Delete(ctx context.Context, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return err
	}

	return mapStoreError(s.storage.DeleteAccount(ctx, s.vault.ID, accountID))
}

func (s *vaultSession) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx)

	if err := s.authenticated(); err != nil {
		return err
	}
	if !s.password.EqualTo([]byte(oldPassword)) {
		return ErrWrongPassword
	}
	if err := s.policy.Validate(ctx, newPassword, s.vault.Name); err != nil {
		return mapValidationError(err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return mapCryptoError(err)
	}

	// salt stays as is
	newKey, newCipher, err := s.deriveCipher(newPassword, s.vault.Salt)
	if err != nil {
		return err
	}

	updated := s.vault
	updated.PassHash = hash
	oldCodec, newCodec := s.codec(), NewAccountCodec(newCipher, s.vault.ID)

	err = s.storage.WithinTx(ctx, func(tx store.Storage) error {
		if err := tx.UpdateVault(ctx, updated); err != nil {
			return mapStoreError(err)
		}

		accounts, err := tx.ListAccounts(ctx, updated.ID)
		if err != nil {
			return mapStoreError(err)
		}

		for _, a := range accounts {
			plain, err := oldCodec.Decrypt(a)
			if err != nil {
				return fmt.Errorf("account %d: %w", a.ID, err)
			}
			enc, err := newCodec.Encrypt(plain)
			if err != nil {
				return fmt.Errorf("account %d: %w", a.ID, err)
			}
			if err = tx.UpdateAccount(ctx, enc); err != nil {
				return mapStoreError(err)
			}
		}

		return nil
	})
	if err != nil {
		newCipher.Destroy()
		newKey.Destroy()
		log.Err(err).Str("func", "*vaultSession.ChangePassword").Msg("password rotation rolled back")
		return mapStoreError(err)
	}

	s.cipher.Destroy()
	s.key.Destroy()
	s.password.Destroy()

	s.vault = updated
	s.key = newKey
	s.cipher = newCipher
	s.password = memguard.NewBufferFromBytes([]byte(newPassword))

	log.Info().Str("func", "*vaultSession.ChangePassword").Int64("vault_id", updated.ID).Msg("master password changed")
	return nil
}

func (s *vaultSession) EnableSecondFactor(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return "", err
	}

	secret, err := s.totp.GenerateSecret(s.vault.Name)
	if err != nil {
		return "", mapCryptoError(err)
	}

	updated := s.vault
	updated.TwoFactorSecret = secret
	if err = s.storage.UpdateVault(ctx, updated); err != nil {
		return "", mapStoreError(err)
	}

	s.vault = updated
	return secret, nil
}

func (s *vaultSession) DisableSecondFactor(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return err
	}
	if !s.vault.HasSecondFactor() {
		return ErrSecondFactorNotEnabled
	}

	updated := s.vault
	updated.TwoFactorSecret = ""
	if err := s.storage.UpdateVault(ctx, updated); err != nil {
		return mapStoreError(err)
	}

	s.vault = updated
	return nil
}

func (s *vaultSession) RenameVault(ctx context.Context, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return err
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: empty vault name", ErrInvalidArgument)
	}

	updated := s.vault
	updated.Name = newName
	if err := s.model.Validate(ctx, updated, validators.FieldName); err != nil {
		return mapValidationError(err)
	}

	if err := s.storage.UpdateVault(ctx, updated); err != nil {
		return mapStoreError(err)
	}

	s.vault = updated
	return nil
}

func (s *vaultSession) Backup(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authenticated(); err != nil {
		return err
	}

	accounts, err := s.storage.ListAccounts(ctx, s.vault.ID)
	if err != nil {
		return mapStoreError(err)
	}

	vault := s.vault
	if err = backup.Write(path, models.BackupPackage{Database: &vault, Accounts: accounts}); err != nil {
		if errors.Is(err, backup.ErrEmptyPath) {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	logger.FromContext(ctx).Info().Str("func", "*vaultSession.Backup").Int("accounts", len(accounts)).Msg("backup written")
	return nil
}

func (s *vaultSession) Restore(ctx context.Context, path, newName string) (models.Vault, error) {
	s.mu.Lock()
	if s.state != models.StateLoggedOut {
		s.mu.Unlock()
		return models.Vault{}, ErrInvalidState
	}
	s.mu.Unlock()

	return s.vaults.Restore(ctx, path, newName)
}

func (s *vaultSession) LockIfIdle(now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.StateLoggedOut || idle <= 0 {
		return false
	}
	if now.Sub(s.lastActivity) < idle {
		return false
	}

	s.clear()
	return true
}
