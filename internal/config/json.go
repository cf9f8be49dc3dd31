package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		HashIterations          int      `json:"hash_iterations"`
		KDFIterations           int      `json:"kdf_iterations"`
		PRF                     string   `json:"prf"`
		CipherMode              string   `json:"cipher_mode"`
		MaxLoginAttempts        int      `json:"max_login_attempts"`
		MaxSecondFactorAttempts int      `json:"max_second_factor_attempts"`
		LockoutDuration         Duration `json:"lockout_duration"`
		MinPasswordScore        int      `json:"min_password_score"`
		TOTPIssuer              string   `json:"totp_issuer"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		IdleTimeout Duration `json:"idle_timeout"`
		Tick        Duration `json:"tick"`
	} `json:"workers,omitempty"`

	Log struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			HashIterations:          jsonCfg.App.HashIterations,
			KDFIterations:           jsonCfg.App.KDFIterations,
			PRF:                     jsonCfg.App.PRF,
			CipherMode:              jsonCfg.App.CipherMode,
			MaxLoginAttempts:        jsonCfg.App.MaxLoginAttempts,
			MaxSecondFactorAttempts: jsonCfg.App.MaxSecondFactorAttempts,
			LockoutDuration:         time.Duration(jsonCfg.App.LockoutDuration),
			MinPasswordScore:        jsonCfg.App.MinPasswordScore,
			TOTPIssuer:              jsonCfg.App.TOTPIssuer,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Workers: Workers{
			IdleTimeout: time.Duration(jsonCfg.Workers.IdleTimeout),
			Tick:        time.Duration(jsonCfg.Workers.Tick),
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
			File:  jsonCfg.Log.File,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
