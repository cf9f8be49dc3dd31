// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/MKhiriev/go-pass-vault/internal/backup"
	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
)

// mapStoreError translates a storage error into a service business error
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrVaultNotFound):
		return ErrVaultNotFound
	case errors.Is(err, store.ErrVaultAlreadyExists):
		return ErrVaultAlreadyExists
	case errors.Is(err, store.ErrAccountNotFound):
		return ErrAccountNotFound
	}

	// already categorised, e.g. returned from inside a transaction
	if isCategorised(err) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// mapBackupError translates a backup read error into a service business error
func mapBackupError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backup.ErrMalformedPackage):
		return fmt.Errorf("%w: %w", ErrMalformedBackup, err)
	case errors.Is(err, backup.ErrEmptyPath):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, fs.ErrNotExist):
		return ErrBackupNotFound
	}

	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// mapValidationError wraps a validator error into ErrValidation
func mapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, validators.ErrUnsupportedType) || errors.Is(err, validators.ErrUnknownField) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// mapCryptoError wraps a crypto primitive error into ErrCrypto
func mapCryptoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, crypto.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return fmt.Errorf("%w: %w", ErrCrypto, err)
}

func isCategorised(err error) bool {
	for _, category := range []error{ErrValidation, ErrNotFound, ErrAuth, ErrCrypto, ErrStorage, ErrInvalidState} {
		if errors.Is(err, category) {
			return true
		}
	}
	return false
}
