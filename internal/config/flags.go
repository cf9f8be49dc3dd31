package config

import (
	"flag"
	"fmt"
	"time"
)

// ParseFlags parses the global configuration flags from args and returns the
// resulting config together with the remaining positional arguments (the
// command and its operands).
//
// Flags:
//
//	-c/-config json file path with configs
//	-driver storage driver (sqlite3, sqlite, pgx, file, memory)
//	-d database DSN
//	-hash-iterations PBKDF2 iterations for the stored hash
//	-kdf-iterations PBKDF2 iterations for the record key
//	-prf PBKDF2 hash function (sha256, sha1)
//	-cipher record cipher (cbc, gcm)
//	-max-login-attempts failed logins before lockout
//	-lockout lockout release time (e.g., "15m"), 0 keeps it until restart
//	-min-password-score minimal zxcvbn score for new master passwords
//	-idle-timeout auto-lock after inactivity (e.g., "5m")
//	-log-level log level
//	-log-file log file path
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var jsonConfigPath string
	var driver, databaseDSN string
	var hashIterations, kdfIterations int
	var prf, cipherMode string
	var maxLoginAttempts, minPasswordScore int
	var lockout, idleTimeout time.Duration
	var logLevel, logFile string

	fs := flag.NewFlagSet("vaultctl", flag.ContinueOnError)

	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&driver, "driver", "", "Storage driver: sqlite3, sqlite, pgx, file, memory")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.IntVar(&hashIterations, "hash-iterations", 0, "PBKDF2 iterations for the stored hash")
	fs.IntVar(&kdfIterations, "kdf-iterations", 0, "PBKDF2 iterations for the record key")
	fs.StringVar(&prf, "prf", "", "PBKDF2 hash function: sha256, sha1")
	fs.StringVar(&cipherMode, "cipher", "", "Record cipher: cbc, gcm")
	fs.IntVar(&maxLoginAttempts, "max-login-attempts", 0, "Failed logins before lockout")
	fs.DurationVar(&lockout, "lockout", 0, "Lockout release time (e.g., 15m)")
	fs.IntVar(&minPasswordScore, "min-password-score", 0, "Minimal zxcvbn score for new master passwords")
	fs.DurationVar(&idleTimeout, "idle-timeout", 0, "Auto-lock after inactivity (e.g., 5m)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			HashIterations:   hashIterations,
			KDFIterations:    kdfIterations,
			PRF:              prf,
			CipherMode:       cipherMode,
			MaxLoginAttempts: maxLoginAttempts,
			LockoutDuration:  lockout,
			MinPasswordScore: minPasswordScore,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Workers: Workers{
			IdleTimeout: idleTimeout,
		},
		Log: Log{
			Level: logLevel,
			File:  logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}
