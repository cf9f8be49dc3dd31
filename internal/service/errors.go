package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/backup"
	"github.com/MKhiriev/go-pass-vault/internal/store"
)

// Error categories. Every error returned by this package wraps exactly one
// of them, so callers may branch on the category with [errors.Is].
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrAuth         = errors.New("authentication error")
	ErrCrypto       = errors.New("crypto error")
	ErrStorage      = errors.New("storage error")
	ErrInvalidState = errors.New("operation not allowed in the current session state")
)

var (
	ErrInvalidArgument    = fmt.Errorf("%w: invalid argument", ErrValidation)
	ErrVaultAlreadyExists = fmt.Errorf("%w: %w", ErrValidation, store.ErrVaultAlreadyExists)
	ErrMalformedBackup    = fmt.Errorf("%w: %w", ErrValidation, backup.ErrMalformedPackage)

	ErrVaultNotFound   = fmt.Errorf("%w: %w", ErrNotFound, store.ErrVaultNotFound)
	ErrAccountNotFound = fmt.Errorf("%w: %w", ErrNotFound, store.ErrAccountNotFound)
	ErrBackupNotFound  = fmt.Errorf("%w: backup file does not exist", ErrNotFound)

	ErrWrongPassword   = fmt.Errorf("%w: wrong password", ErrAuth)
	ErrWrongCode       = fmt.Errorf("%w: wrong second factor code", ErrAuth)
	ErrTooManyAttempts = fmt.Errorf("%w: too many attempts", ErrAuth)

	ErrSecondFactorNotEnabled = fmt.Errorf("%w: second factor is not enabled", ErrInvalidState)
)
