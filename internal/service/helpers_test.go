package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/models"
)

const testPassword = "test123"

func testAppConfig() config.App {
	return config.App{
		HashIterations:          1000,
		KDFIterations:           1000,
		PRF:                     "sha256",
		CipherMode:              "cbc",
		MaxLoginAttempts:        10,
		MaxSecondFactorAttempts: 5,
		TOTPIssuer:              "go-pass-vault-test",
	}
}

func newTestServices(t *testing.T, opts ...Option) *Services {
	t.Helper()
	return newTestServicesWith(t, store.NewMemoryStorage(), testAppConfig(), opts...)
}

func newTestServicesWith(t *testing.T, storage store.Storage, cfg config.App, opts ...Option) *Services {
	t.Helper()

	svcs, err := NewServices(&store.Storages{Storage: storage}, cfg, logger.Nop(), nil, opts...)
	require.NoError(t, err)
	return svcs
}

// newSession returns a session closed at test end so locked memory is freed.
func newSession(t *testing.T, svcs *Services) Session {
	t.Helper()

	s := svcs.NewSession()
	t.Cleanup(s.Close)
	return s
}

func createVault(t *testing.T, svcs *Services, name string) models.Vault {
	t.Helper()

	v, err := svcs.VaultService.CreateVault(context.Background(), name, testPassword)
	require.NoError(t, err)
	return v
}

func loggedIn(t *testing.T, svcs *Services, name string) Session {
	t.Helper()

	s := newSession(t, svcs)
	res, err := s.Login(context.Background(), name, testPassword)
	require.NoError(t, err)
	require.Equal(t, models.LoginSuccess, res)
	return s
}

func sampleAccounts() []models.Account {
	return []models.Account{
		{Title: "mail", Username: "alice@example.com", Password: "p@ss", Description: "personal", Type: "email"},
		{Title: "bank", Username: "alice", Password: "1234", Description: "", Type: "finance", TwoFactorSecret: "JBSWY3DPEHPK3PXP"},
		{Title: "empty fields"},
	}
}

// plaintextOnly drops ids so accounts from different vaults compare equal.
func plaintextOnly(accounts []models.Account) []models.Account {
	out := make([]models.Account, len(accounts))
	for i, a := range accounts {
		a.ID, a.VaultID = 0, 0
		out[i] = a
	}
	return out
}
