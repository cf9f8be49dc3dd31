// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package backup

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

// FileMode is the permission every backup file is written with.
const FileMode os.FileMode = 0o600

var ids = utils.NewUUIDGenerator()

// Write stores pkg at path. The file is replaced atomically and is readable
// by the owner only. A missing PackageID or CreatedAt is filled in.
func Write(path string, pkg models.BackupPackage) error {
	if path == "" {
		return ErrEmptyPath
	}
	if pkg.Database == nil {
		return fmt.Errorf("%w: no vault section", ErrMalformedPackage)
	}

	if pkg.PackageID == "" {
		pkg.PackageID = ids.Generate()
	}
	if pkg.CreatedAt == nil {
		now := time.Now().UTC()
		pkg.CreatedAt = &now
	}
	if pkg.Accounts == nil {
		pkg.Accounts = make([]models.Account, 0)
	}

	payload, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup package: %w", err)
	}

	if err = utils.WriteFileAtomic(path, payload, FileMode); err != nil {
		return fmt.Errorf("write backup package: %w", err)
	}
	return nil
}

// Read loads and checks the package at path.
func Read(path string) (models.BackupPackage, error) {
	if path == "" {
		return models.BackupPackage{}, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.BackupPackage{}, fmt.Errorf("read backup package: %w", err)
	}

	return Decode(data)
}

// Decode parses a package from its JSON form and checks that the vault
// section can be restored.
func Decode(data []byte) (models.BackupPackage, error) {
	var pkg models.BackupPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return models.BackupPackage{}, fmt.Errorf("%w: %w", ErrMalformedPackage, err)
	}

	if err := check(pkg); err != nil {
		return models.BackupPackage{}, err
	}
	if pkg.Accounts == nil {
		pkg.Accounts = make([]models.Account, 0)
	}

	return pkg, nil
}

func check(pkg models.BackupPackage) error {
	v := pkg.Database
	if v == nil {
		return fmt.Errorf("%w: no vault section", ErrMalformedPackage)
	}
	if v.Name == "" {
		return fmt.Errorf("%w: vault name is empty", ErrMalformedPackage)
	}

	hash, err := base64.StdEncoding.DecodeString(v.PassHash)
	if err != nil {
		return fmt.Errorf("%w: password hash is not base64", ErrMalformedPackage)
	}
	if len(hash) <= crypto.SaltSize {
		return fmt.Errorf("%w: password hash is too short", ErrMalformedPackage)
	}

	if len(v.Salt) < crypto.MinSaltLength {
		return fmt.Errorf("%w: salt is shorter than %d bytes", ErrMalformedPackage, crypto.MinSaltLength)
	}

	return nil
}
