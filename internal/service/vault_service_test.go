package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pass-vault/internal/mock"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/validators"
	"github.com/MKhiriev/go-pass-vault/models"
)

func TestVaultService_CreateVault(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t)

	a, err := svcs.VaultService.CreateVault(ctx, "  a  ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "a", a.Name)
	assert.Positive(t, a.ID)

	raw, err := base64.StdEncoding.DecodeString(a.Salt)
	require.NoError(t, err)
	assert.Len(t, raw, saltSize)

	b := createVault(t, svcs, "b")
	assert.NotEqual(t, a.Salt, b.Salt, "salts are random per vault")
	assert.NotEqual(t, a.PassHash, b.PassHash)

	_, err = svcs.VaultService.CreateVault(ctx, "a", testPassword)
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)

	_, err = svcs.VaultService.CreateVault(ctx, "", testPassword)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svcs.VaultService.CreateVault(ctx, "c", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVaultService_CreateVault_WeakPassword(t *testing.T) {
	cfg := testAppConfig()
	cfg.MinPasswordScore = 3
	svcs := newTestServicesWith(t, store.NewMemoryStorage(), cfg)

	_, err := svcs.VaultService.CreateVault(context.Background(), "main", "password")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrWeakPassword)
}

func TestVaultService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	storage := store.NewMemoryStorage()
	svcs := newTestServicesWith(t, storage, testAppConfig())
	v := createVault(t, svcs, "b")
	createVault(t, svcs, "a")

	s := loggedIn(t, svcs, "b")
	_, err := s.Add(ctx, models.Account{Title: "t"})
	require.NoError(t, err)
	s.Close()

	vaults, err := svcs.VaultService.ListVaults(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 2)
	assert.Equal(t, "a", vaults[0].Name)

	require.NoError(t, svcs.VaultService.DeleteVault(ctx, "b"))
	assert.ErrorIs(t, svcs.VaultService.DeleteVault(ctx, "b"), ErrVaultNotFound)

	accounts, err := storage.ListAccounts(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestBackupRestore_Fidelity(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t)
	createVault(t, svcs, "source")
	path := filepath.Join(t.TempDir(), "source.backup")

	s := loggedIn(t, svcs, "source")
	for _, a := range sampleAccounts() {
		_, err := s.Add(ctx, a)
		require.NoError(t, err)
	}
	want, err := s.GetAccounts(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Backup(ctx, path))

	_, err = s.Restore(ctx, path, "copy")
	assert.ErrorIs(t, err, ErrInvalidState, "restore needs the logged out state")
	require.True(t, s.Logout())

	restored, err := s.Restore(ctx, path, "copy")
	require.NoError(t, err)
	assert.Equal(t, "copy", restored.Name)

	res, err := s.Login(ctx, "copy", testPassword)
	require.NoError(t, err)
	require.Equal(t, models.LoginSuccess, res)

	got, err := s.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, plaintextOnly(want), plaintextOnly(got))
	for _, a := range got {
		assert.Equal(t, restored.ID, a.VaultID)
	}
}

func TestBackup_FileIsPrivate(t *testing.T) {
	svcs := newTestServices(t)
	createVault(t, svcs, "main")
	s := loggedIn(t, svcs, "main")

	path := filepath.Join(t.TempDir(), "main.backup")
	require.NoError(t, s.Backup(context.Background(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.ErrorIs(t, s.Backup(context.Background(), ""), ErrInvalidArgument)
}

func TestRestore_Naming(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t)
	createVault(t, svcs, "main")
	path := filepath.Join(t.TempDir(), "main.backup")

	s := loggedIn(t, svcs, "main")
	require.NoError(t, s.Backup(ctx, path))
	s.Close()

	// original name taken, falls back to the prefixed one
	v, err := svcs.VaultService.Restore(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, "_main", v.Name)

	// both taken
	_, err = svcs.VaultService.Restore(ctx, path, "")
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)

	// explicit name taken
	_, err = svcs.VaultService.Restore(ctx, path, "main")
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)

	// original name free again
	require.NoError(t, svcs.VaultService.DeleteVault(ctx, "main"))
	v, err = svcs.VaultService.Restore(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, "main", v.Name)

	res, _ := loggedInResult(t, svcs, "main")
	assert.Equal(t, models.LoginSuccess, res)
}

func loggedInResult(t *testing.T, svcs *Services, name string) (models.LoginResult, error) {
	t.Helper()
	return newSession(t, svcs).Login(context.Background(), name, testPassword)
}

func TestRestore_BadPackages(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t)
	dir := t.TempDir()

	_, err := svcs.VaultService.Restore(ctx, filepath.Join(dir, "absent"), "")
	assert.ErrorIs(t, err, ErrBackupNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	malformed := filepath.Join(dir, "malformed")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"Accounts": []}`), 0o600))
	_, err = svcs.VaultService.Restore(ctx, malformed, "x")
	assert.ErrorIs(t, err, ErrMalformedBackup)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svcs.VaultService.Restore(ctx, "", "x")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRestore_LegacyPackage(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices(t)

	// a package with no accounts and without the optional fields
	hash, err := svcs.hasher.Hash("legacy-pass")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "legacy.json")
	pkg := `{"Database":{"Id":42,"Name":"legacy","Passhash":"` + hash + `","Salt":"legacylegacy","TwoFactorSecret":""},"Accounts":[]}`
	require.NoError(t, os.WriteFile(path, []byte(pkg), 0o600))

	v, err := svcs.VaultService.Restore(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", v.Name)
	assert.Equal(t, "legacylegacy", v.Salt)

	s := newSession(t, svcs)
	res, err := s.Login(ctx, "legacy", "legacy-pass")
	require.NoError(t, err)
	assert.Equal(t, models.LoginSuccess, res)
}

// ── mocked storage ───────────────────────────────────────────────────────────

func TestRestore_AccountInsertFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	base := newTestServices(t)
	createVault(t, base, "src")
	s := loggedIn(t, base, "src")
	_, err := s.Add(ctx, models.Account{Title: "t"})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "src.backup")
	require.NoError(t, s.Backup(ctx, path))

	storage := mock.NewMockStorage(ctrl)
	tx := mock.NewMockStorage(ctrl)
	svc := NewVaultService(storage, base.hasher, base.model, base.policy, nil)

	gomock.InOrder(
		storage.EXPECT().FindVaultByName(ctx, "dst").Return(models.Vault{}, store.ErrVaultNotFound),
		storage.EXPECT().WithinTx(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(store.Storage) error) error {
				return fn(tx)
			},
		),
	)
	tx.EXPECT().InsertVault(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, v models.Vault) (int64, error) {
			assert.Equal(t, "dst", v.Name)
			return 77, nil
		},
	)
	tx.EXPECT().InsertAccounts(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, accounts []models.Account) ([]int64, error) {
			require.Len(t, accounts, 1)
			assert.Equal(t, int64(77), accounts[0].VaultID)
			assert.Zero(t, accounts[0].ID)
			return nil, store.ErrExecutingQuery
		},
	)

	_, err = svc.Restore(ctx, path, "dst")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestSession_ChangePassword_StorageFailureKeepsOldKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	base := newTestServices(t)
	hash, err := base.hasher.Hash(testPassword)
	require.NoError(t, err)
	vault := models.Vault{ID: 5, Name: "main", PassHash: hash, Salt: "c2FsdHNhbHRzYWx0"}

	storage := mock.NewMockStorage(ctrl)
	base.storage = storage
	s := newSession(t, base)

	storage.EXPECT().FindVaultByName(ctx, "main").Return(vault, nil)
	res, err := s.Login(ctx, "main", testPassword)
	require.NoError(t, err)
	require.Equal(t, models.LoginSuccess, res)

	storage.EXPECT().WithinTx(ctx, gomock.Any()).Return(store.ErrCommitingTransaction)
	err = s.ChangePassword(ctx, testPassword, "new-password")
	assert.ErrorIs(t, err, ErrStorage)

	// the old password is still the cached one
	storage.EXPECT().WithinTx(ctx, gomock.Any()).Return(nil)
	assert.NoError(t, s.ChangePassword(ctx, testPassword, "new-password"))
}

func TestSession_StorageErrorsAreCategorised(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	base := newTestServices(t)
	storage := mock.NewMockStorage(ctrl)
	base.storage = storage
	s := newSession(t, base)

	storage.EXPECT().FindVaultByName(ctx, "main").Return(models.Vault{}, store.ErrExecutingQuery)
	res, err := s.Login(ctx, "main", testPassword)
	assert.Equal(t, models.LoginError, res)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, store.ErrExecutingQuery)
}

func TestSession_EnableSecondFactor_Mocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	provider := mock.NewMockProvider(ctrl)
	base := newTestServices(t, WithTwoFactor(provider))
	createVault(t, base, "main")
	s := loggedIn(t, base, "main")

	provider.EXPECT().GenerateSecret("main").Return("SECRET", nil)
	secret, err := s.EnableSecondFactor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SECRET", secret)
	require.True(t, s.Logout())

	res, _ := s.Login(ctx, "main", testPassword)
	require.Equal(t, models.LoginNeedsSecondFactor, res)

	gomock.InOrder(
		provider.EXPECT().ValidateCode("SECRET", "111111").Return(false),
		provider.EXPECT().ValidateCode("SECRET", "222222").Return(true),
	)
	ok, err := s.CompleteSecondFactor(ctx, "111111")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.CompleteSecondFactor(ctx, " 222222 ")
	require.NoError(t, err)
	assert.True(t, ok)

	provider.EXPECT().GenerateSecret("main").Return("", bytes.ErrTooLarge)
	_, err = s.EnableSecondFactor(ctx)
	assert.ErrorIs(t, err, ErrCrypto)
}
