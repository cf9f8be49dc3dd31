package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/twofactor"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
)

// Services wires the crypto primitives, validators and storage into the
// vault service and hands out sessions sharing them.
type Services struct {
	VaultService VaultService

	storage   store.Storage
	hasher    crypto.Hasher
	deriver   crypto.KeyDeriver
	newCipher crypto.CipherFactory
	totp      twofactor.Provider
	model     validators.Validator
	policy    validators.Validator
	limits    SessionLimits
	now       func() time.Time
}

// Option customizes Services, mainly for tests.
type Option func(*Services)

// WithClock replaces time.Now in sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Services) { s.now = now }
}

// WithTwoFactor replaces the TOTP provider.
func WithTwoFactor(p twofactor.Provider) Option {
	return func(s *Services) { s.totp = p }
}

// NewServices builds all services from the application config. Invalid
// crypto parameters fail here rather than on first use.
func NewServices(storages *store.Storages, cfg config.App, log *logger.Logger, random io.Reader, opts ...Option) (*Services, error) {
	if random == nil {
		random = rand.Reader
	}

	prf := crypto.PRF(cfg.PRF)

	hasher, err := crypto.NewHasher(cfg.HashIterations, crypto.DefaultHashLength, prf, random)
	if err != nil {
		return nil, fmt.Errorf("hasher: %w", err)
	}
	deriver, err := crypto.NewKeyDeriver(cfg.KDFIterations, prf)
	if err != nil {
		return nil, fmt.Errorf("key deriver: %w", err)
	}
	newCipher, err := crypto.NewCipherFactory(crypto.Mode(cfg.CipherMode), random)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}

	s := &Services{
		storage:   storages.Storage,
		hasher:    hasher,
		deriver:   deriver,
		newCipher: newCipher,
		totp:      twofactor.NewTOTPProvider(cfg.TOTPIssuer, twofactor.WithRand(random)),
		model:     validators.NewModelValidator(),
		policy:    validators.NewPasswordPolicy(cfg.MinPasswordScore),
		limits: SessionLimits{
			MaxLoginAttempts:        cfg.MaxLoginAttempts,
			MaxSecondFactorAttempts: cfg.MaxSecondFactorAttempts,
			LockoutDuration:         cfg.LockoutDuration,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.VaultService = NewVaultService(s.storage, s.hasher, s.model, s.policy, random)

	log.Debug().
		Str("prf", cfg.PRF).
		Str("cipher", cfg.CipherMode).
		Int("hash_iterations", cfg.HashIterations).
		Int("kdf_iterations", cfg.KDFIterations).
		Msg("services created")

	return s, nil
}

// NewSession returns a logged out [Session].
func (s *Services) NewSession() Session {
	return &vaultSession{
		storage:   s.storage,
		hasher:    s.hasher,
		deriver:   s.deriver,
		newCipher: s.newCipher,
		totp:      s.totp,
		model:     s.model,
		policy:    s.policy,
		vaults:    s.VaultService,
		limits:    s.limits,
		now:       s.now,
	}
}

// GenerateCode returns the current one-time code for secret, which lets a
// user check an authenticator setup right after enabling the second factor.
func (s *Services) GenerateCode(secret string) (string, error) {
	code, err := s.totp.GenerateCode(secret)
	if err != nil {
		return "", mapCryptoError(err)
	}
	return code, nil
}
