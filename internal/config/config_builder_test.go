package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func defaultConfig() *StructuredConfig {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()
	return cfg
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
	assert.Empty(t, b.rest)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns the
// defaults.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	assert.Equal(t, DefaultHashIterations, cfg.App.HashIterations)
	assert.Equal(t, DefaultKDFIterations, cfg.App.KDFIterations)
	assert.Equal(t, "cbc", cfg.App.CipherMode)
	assert.Equal(t, "sha1", cfg.App.PRF)
	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
	assert.Zero(t, cfg.Workers.IdleTimeout)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result and later sources win.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{CipherMode: "cbc", KDFIterations: 1000}},
		&StructuredConfig{App: App{CipherMode: "gcm", TOTPIssuer: "issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "gcm", cfg.App.CipherMode)
	assert.Equal(t, 1000, cfg.App.KDFIterations)
	assert.Equal(t, "issuer", cfg.App.TOTPIssuer)
}

// TestBuild_MemoryDriverNeedsNoDSN verifies that the in-memory driver is
// accepted without a DSN.
func TestBuild_MemoryDriverNeedsNoDSN(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Storage: Storage{DB: DB{Driver: "memory"}}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

// TestBuild_Validation verifies that invalid merged values are rejected with
// the matching sentinel.
func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *StructuredConfig
		wantErr error
	}{
		{
			name:    "negative hash iterations",
			cfg:     &StructuredConfig{App: App{HashIterations: -1}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown prf",
			cfg:     &StructuredConfig{App: App{PRF: "md5"}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown cipher",
			cfg:     &StructuredConfig{App: App{CipherMode: "ecb"}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "score out of range",
			cfg:     &StructuredConfig{App: App{MinPasswordScore: 5}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "negative lockout",
			cfg:     &StructuredConfig{App: App{LockoutDuration: -time.Second}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown driver",
			cfg:     &StructuredConfig{Storage: Storage{DB: DB{Driver: "mysql"}}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "negative idle timeout",
			cfg:     &StructuredConfig{Workers: Workers{IdleTimeout: -time.Minute}},
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newConfigBuilder()
			b.configs = append(b.configs, tt.cfg)

			_, err := b.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_CIPHER_MODE":   "gcm",
		"STORAGE_DB_DRIVER": "file",
	})

	b := newConfigBuilder()
	b.withEnv()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "gcm", b.configs[0].App.CipherMode)
	assert.Equal(t, "file", b.configs[0].Storage.DB.Driver)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_KeepsRemainingArgs verifies that positional arguments survive
// flag parsing.
func TestWithFlags_KeepsRemainingArgs(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags([]string{"-cipher", "gcm", "accounts", "work"}))

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "gcm", b.configs[0].App.CipherMode)
	assert.Equal(t, []string{"accounts", "work"}, b.rest)
}

// TestWithFlags_SetsError verifies that a parse failure is recorded.
func TestWithFlags_SetsError(t *testing.T) {
	b := newConfigBuilder()
	b.withFlags([]string{"-nope"})

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.CipherMode = "gcm"
	payload.App.TOTPIssuer = "json-issuer"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "gcm", b.configs[1].App.CipherMode)
	assert.Equal(t, "json-issuer", b.configs[1].App.TOTPIssuer)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Log.Level = "debug"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: "/nonexistent/first.json"},
		&StructuredConfig{JSONFilePath: path},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "debug", b.configs[2].Log.Level)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

// TestGetStructuredConfig_JSONOverridesEnvAndFlags verifies the source
// priority end to end.
func TestGetStructuredConfig_JSONOverridesEnvAndFlags(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.KDFIterations = 3000
	path := writeTempJSONConfig(t, payload)

	setEnvVars(t, map[string]string{
		"APP_KDF_ITERATIONS": "1000",
		"APP_CIPHER_MODE":    "gcm",
	})

	cfg, rest, err := GetStructuredConfig([]string{"-c", path, "-kdf-iterations", "2000", "-driver", "memory", "list"})
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.App.KDFIterations)
	assert.Equal(t, "gcm", cfg.App.CipherMode)
	assert.Equal(t, "memory", cfg.Storage.DB.Driver)
	assert.Equal(t, []string{"list"}, rest)
}

func TestGetStructuredConfig_BadFlag(t *testing.T) {
	clearEnvVars(t)

	cfg, rest, err := GetStructuredConfig([]string{"-bogus"})
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Nil(t, rest)
}
