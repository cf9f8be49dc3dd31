// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid*Configs sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	switch {
	case cfg.App.HashIterations <= 0:
		return fmt.Errorf("%w: hash iterations must be positive", ErrInvalidAppConfigs)
	case cfg.App.KDFIterations <= 0:
		return fmt.Errorf("%w: kdf iterations must be positive", ErrInvalidAppConfigs)
	case cfg.App.PRF != "sha256" && cfg.App.PRF != "sha1":
		return fmt.Errorf("%w: unknown prf %q", ErrInvalidAppConfigs, cfg.App.PRF)
	case cfg.App.CipherMode != "cbc" && cfg.App.CipherMode != "gcm":
		return fmt.Errorf("%w: unknown cipher mode %q", ErrInvalidAppConfigs, cfg.App.CipherMode)
	case cfg.App.MaxLoginAttempts < 0 || cfg.App.MaxSecondFactorAttempts < 0:
		return fmt.Errorf("%w: attempt limits must not be negative", ErrInvalidAppConfigs)
	case cfg.App.LockoutDuration < 0:
		return fmt.Errorf("%w: lockout duration must not be negative", ErrInvalidAppConfigs)
	case cfg.App.MinPasswordScore < 0 || cfg.App.MinPasswordScore > 4:
		return fmt.Errorf("%w: password score must be within 0..4", ErrInvalidAppConfigs)
	}

	switch cfg.Storage.DB.Driver {
	case "sqlite3", "sqlite", "pgx", "file":
		if cfg.Storage.DB.DSN == "" {
			return fmt.Errorf("%w: empty dsn for driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}

	if cfg.Workers.IdleTimeout < 0 || cfg.Workers.Tick <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
