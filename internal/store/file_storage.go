package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	// DriverFile keeps the whole store in a single JSON file.
	DriverFile = "file"
	// DriverMemory keeps the store in process memory only.
	DriverMemory = "memory"
)

// fileStorage is a [Storage] kept in memory and, unless in-memory, mirrored
// to a JSON file after every committed change. Transactions snapshot the
// state and restore it on failure.
type fileStorage struct {
	st   *fileState
	inTx bool
}

type fileState struct {
	path     string
	inMemory bool

	txMu sync.Mutex // one transaction at a time
	mu   sync.RWMutex
	data fileData
}

type fileData struct {
	NextVaultID   int64                    `json:"next_vault_id"`
	NextAccountID int64                    `json:"next_account_id"`
	Vaults        map[int64]models.Vault   `json:"vaults"`
	Accounts      map[int64]models.Account `json:"accounts"`
}

func (d fileData) clone() fileData {
	return fileData{
		NextVaultID:   d.NextVaultID,
		NextAccountID: d.NextAccountID,
		Vaults:        maps.Clone(d.Vaults),
		Accounts:      maps.Clone(d.Accounts),
	}
}

// NewFileStorage opens (or lazily creates) the JSON store at path. An empty
// path or ":memory:" gives a purely in-memory store.
func NewFileStorage(path string) (Storage, error) {
	if path == "" {
		path = ":memory:"
	}

	st := &fileState{
		path:     path,
		inMemory: path == ":memory:" || path == DriverMemory,
		data: fileData{
			NextVaultID:   1,
			NextAccountID: 1,
			Vaults:        make(map[int64]models.Vault),
			Accounts:      make(map[int64]models.Account),
		},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &fileStorage{st: st}, nil
}

// NewMemoryStorage returns an empty in-memory [Storage].
func NewMemoryStorage() Storage {
	s, _ := NewFileStorage(":memory:")
	return s
}

func (st *fileState) load() error {
	if st.inMemory {
		return nil
	}

	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local storage file: %w", err)
	}

	var d fileData
	if err = json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("decode local storage file: %w", err)
	}

	if d.NextVaultID <= 0 {
		d.NextVaultID = 1
	}
	if d.NextAccountID <= 0 {
		d.NextAccountID = 1
	}
	if d.Vaults == nil {
		d.Vaults = make(map[int64]models.Vault)
	}
	if d.Accounts == nil {
		d.Accounts = make(map[int64]models.Account)
	}

	st.data = d
	return nil
}

func (st *fileState) persist() error {
	if st.inMemory {
		return nil
	}

	dir := filepath.Dir(st.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create local storage dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(st.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local storage: %w", err)
	}

	if err = utils.WriteFileAtomic(st.path, payload, 0o600); err != nil {
		return fmt.Errorf("write local storage file: %w", err)
	}

	return nil
}

// mutate applies fn under the write lock and persists the result unless a
// transaction is open. A failed persist restores the previous state.
func (s *fileStorage) mutate(fn func(d *fileData) error) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.inTx {
		return fn(&s.st.data)
	}

	snapshot := s.st.data.clone()
	if err := fn(&s.st.data); err != nil {
		s.st.data = snapshot
		return err
	}
	if err := s.st.persist(); err != nil {
		s.st.data = snapshot
		return err
	}
	return nil
}

func (d *fileData) vaultByName(name string) (models.Vault, bool) {
	for _, v := range d.Vaults {
		if v.Name == name {
			return v, true
		}
	}
	return models.Vault{}, false
}

func (s *fileStorage) FindVaultByName(_ context.Context, name string) (models.Vault, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()

	v, ok := s.st.data.vaultByName(name)
	if !ok {
		return models.Vault{}, ErrVaultNotFound
	}
	return v, nil
}

func (s *fileStorage) InsertVault(_ context.Context, vault models.Vault) (int64, error) {
	var id int64
	err := s.mutate(func(d *fileData) error {
		if _, taken := d.vaultByName(vault.Name); taken {
			return ErrVaultAlreadyExists
		}
		id = d.NextVaultID
		d.NextVaultID++
		vault.ID = id
		d.Vaults[id] = vault
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *fileStorage) UpdateVault(_ context.Context, vault models.Vault) error {
	return s.mutate(func(d *fileData) error {
		current, ok := d.Vaults[vault.ID]
		if !ok {
			return ErrVaultNotFound
		}
		if other, taken := d.vaultByName(vault.Name); taken && other.ID != vault.ID {
			return ErrVaultAlreadyExists
		}

		current.Name = vault.Name
		current.PassHash = vault.PassHash
		current.TwoFactorSecret = vault.TwoFactorSecret
		d.Vaults[vault.ID] = current
		return nil
	})
}

func (s *fileStorage) DeleteVaultCascade(_ context.Context, vaultID int64) error {
	return s.mutate(func(d *fileData) error {
		if _, ok := d.Vaults[vaultID]; !ok {
			return ErrVaultNotFound
		}
		delete(d.Vaults, vaultID)
		maps.DeleteFunc(d.Accounts, func(_ int64, a models.Account) bool {
			return a.VaultID == vaultID
		})
		return nil
	})
}

func (s *fileStorage) ListVaults(_ context.Context) ([]models.Vault, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()

	vaults := slices.Collect(maps.Values(s.st.data.Vaults))
	slices.SortFunc(vaults, func(a, b models.Vault) int {
		return cmp.Compare(a.Name, b.Name)
	})
	if vaults == nil {
		vaults = make([]models.Vault, 0)
	}
	return vaults, nil
}

func (s *fileStorage) ListAccounts(_ context.Context, vaultID int64) ([]models.Account, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()

	accounts := make([]models.Account, 0)
	for _, a := range s.st.data.Accounts {
		if a.VaultID == vaultID {
			accounts = append(accounts, a)
		}
	}
	slices.SortFunc(accounts, func(a, b models.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return accounts, nil
}

func (s *fileStorage) InsertAccounts(_ context.Context, accounts []models.Account) ([]int64, error) {
	ids := make([]int64, 0, len(accounts))
	err := s.mutate(func(d *fileData) error {
		for _, a := range accounts {
			if _, ok := d.Vaults[a.VaultID]; !ok {
				return ErrVaultNotFound
			}
			a.ID = d.NextAccountID
			d.NextAccountID++
			d.Accounts[a.ID] = a
			ids = append(ids, a.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *fileStorage) UpdateAccount(_ context.Context, account models.Account) error {
	return s.mutate(func(d *fileData) error {
		current, ok := d.Accounts[account.ID]
		if !ok || current.VaultID != account.VaultID {
			return ErrAccountNotFound
		}
		d.Accounts[account.ID] = account
		return nil
	})
}

func (s *fileStorage) DeleteAccount(_ context.Context, vaultID, accountID int64) error {
	return s.mutate(func(d *fileData) error {
		current, ok := d.Accounts[accountID]
		if !ok || current.VaultID != vaultID {
			return ErrAccountNotFound
		}
		delete(d.Accounts, accountID)
		return nil
	})
}

func (s *fileStorage) WithinTx(_ context.Context, fn func(tx Storage) error) error {
	if s.inTx {
		return fn(s)
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.RLock()
	snapshot := s.st.data.clone()
	s.st.mu.RUnlock()

	if err := fn(&fileStorage{st: s.st, inTx: true}); err != nil {
		s.st.mu.Lock()
		s.st.data = snapshot
		s.st.mu.Unlock()
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err := s.st.persist(); err != nil {
		s.st.data = snapshot
		return err
	}
	return nil
}
