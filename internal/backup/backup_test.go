package backup

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/models"
)

func validVault() *models.Vault {
	return &models.Vault{
		ID:       3,
		Name:     "TestDB",
		PassHash: base64.StdEncoding.EncodeToString(make([]byte, 32)),
		Salt:     "c2FsdHNhbHRzYWx0c2FsdA==",
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TestDB.backup")

	pkg := models.BackupPackage{
		Database: validVault(),
		Accounts: []models.Account{
			{ID: 1, VaultID: 3, Title: "ct-title", Username: "ct-user", Password: "ct-pass", Description: "ct-desc", Type: "email"},
		},
	}

	require.NoError(t, Write(path, pkg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, FileMode, info.Mode().Perm())

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, *pkg.Database, *got.Database)
	assert.Equal(t, pkg.Accounts, got.Accounts)
	assert.NotEmpty(t, got.PackageID)
	assert.NotNil(t, got.CreatedAt)
}

func TestWrite_UsesInteroperableFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pkg.json")

	require.NoError(t, Write(path, models.BackupPackage{
		Database: validVault(),
		Accounts: []models.Account{{VaultID: 3, Title: "x"}},
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, field := range []string{`"Database"`, `"Accounts"`, `"Passhash"`, `"Salt"`, `"TwoFactorSecret"`, `"DbID"`, `"Description"`} {
		assert.True(t, strings.Contains(string(raw), field), "missing %s", field)
	}
}

func TestWrite_Errors(t *testing.T) {
	assert.ErrorIs(t, Write("", models.BackupPackage{Database: validVault()}), ErrEmptyPath)
	assert.ErrorIs(t, Write(filepath.Join(t.TempDir(), "x"), models.BackupPackage{}), ErrMalformedPackage)
	assert.Error(t, Write(filepath.Join(t.TempDir(), "missing", "x"), models.BackupPackage{Database: validVault()}))
}

func TestDecode_LegacyPackage(t *testing.T) {
	// packages without PackageId and CreatedAt still restore
	data := `{
		"Database": {"Id": 1, "Name": "old", "Passhash": "` + validVault().PassHash + `", "Salt": "oldoldold", "TwoFactorSecret": ""},
		"Accounts": [{"Id": 5, "DbID": 1, "Title": "a", "Username": "b", "Password": "c", "Description": "d", "TwoFactorSecret": ""}]
	}`

	pkg, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "old", pkg.Database.Name)
	require.Len(t, pkg.Accounts, 1)
	assert.Equal(t, int64(1), pkg.Accounts[0].VaultID)
	assert.Empty(t, pkg.PackageID)
}

func TestDecode_Malformed(t *testing.T) {
	hash := validVault().PassHash

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"Database":`},
		{"no database", `{"Accounts": []}`},
		{"null database", `{"Database": null, "Accounts": []}`},
		{"empty name", `{"Database": {"Name": "", "Passhash": "` + hash + `", "Salt": "saltsalt"}}`},
		{"hash not base64", `{"Database": {"Name": "x", "Passhash": "%%%", "Salt": "saltsalt"}}`},
		{"hash too short", `{"Database": {"Name": "x", "Passhash": "` + base64.StdEncoding.EncodeToString(make([]byte, 16)) + `", "Salt": "saltsalt"}}`},
		{"short salt", `{"Database": {"Name": "x", "Passhash": "` + hash + `", "Salt": "salt"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedPackage)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := Read("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Read(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedPackage)
}
