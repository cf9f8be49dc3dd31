package config

import "time"

// Default values applied to fields left empty by every source.
const (
	DefaultHashIterations          = 50000
	DefaultKDFIterations           = 10000
	DefaultPRF                     = "sha1"
	DefaultCipherMode              = "cbc"
	DefaultMaxLoginAttempts        = 10
	DefaultMaxSecondFactorAttempts = 5
	DefaultTOTPIssuer              = "go-pass-vault"
	DefaultDriver                  = "sqlite3"
	DefaultDSN                     = "vaults.db"
	DefaultWorkerTick              = time.Second
	DefaultLogLevel                = "info"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.HashIterations == 0 {
		cfg.App.HashIterations = DefaultHashIterations
	}
	if cfg.App.KDFIterations == 0 {
		cfg.App.KDFIterations = DefaultKDFIterations
	}
	if cfg.App.PRF == "" {
		cfg.App.PRF = DefaultPRF
	}
	if cfg.App.CipherMode == "" {
		cfg.App.CipherMode = DefaultCipherMode
	}
	if cfg.App.MaxLoginAttempts == 0 {
		cfg.App.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if cfg.App.MaxSecondFactorAttempts == 0 {
		cfg.App.MaxSecondFactorAttempts = DefaultMaxSecondFactorAttempts
	}
	if cfg.App.TOTPIssuer == "" {
		cfg.App.TOTPIssuer = DefaultTOTPIssuer
	}

	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = DefaultDriver
	}
	if cfg.Storage.DB.DSN == "" && cfg.Storage.DB.Driver != "memory" {
		cfg.Storage.DB.DSN = DefaultDSN
	}

	if cfg.Workers.Tick == 0 {
		cfg.Workers.Tick = DefaultWorkerTick
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
