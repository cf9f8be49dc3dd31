package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlStorage is the SQL implementation of [Storage] shared by the SQLite and
// PostgreSQL backends. Queries are built with squirrel using the placeholder
// format of the connection's dialect.
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type sqlStorage struct {
	db   *DB
	q    execer
	inTx bool
}

// NewSQLStorage constructs a [Storage] backed by the provided connection.
func NewSQLStorage(db *DB) Storage {
	db.logger.Debug().Msg("creating sql storage")
	return &sqlStorage{db: db, q: db.DB}
}

func (s *sqlStorage) classify(err error) ErrorClassification {
	if s.db.errorClassificator == nil {
		return Unclassified
	}
	return s.db.errorClassificator.Classify(err)
}

func (s *sqlStorage) FindVaultByName(ctx context.Context, name string) (models.Vault, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindVaultByNameQuery(s.db.builder(), name)
	if err != nil {
		return models.Vault{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var v models.Vault
	err = s.q.QueryRowContext(ctx, query, args...).Scan(&v.ID, &v.Name, &v.PassHash, &v.Salt, &v.TwoFactorSecret)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Vault{}, ErrVaultNotFound
	case err != nil:
		log.Err(err).Str("func", "*sqlStorage.FindVaultByName").Msg("error finding vault")
		return models.Vault{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return v, nil
}

func (s *sqlStorage) InsertVault(ctx context.Context, vault models.Vault) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertVaultQuery(s.db.builder(), vault)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	if err = s.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if s.classify(err) == UniqueViolation {
			return 0, ErrVaultAlreadyExists
		}
		log.Err(err).Str("func", "*sqlStorage.InsertVault").Msg("error inserting vault")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return id, nil
}

func (s *sqlStorage) UpdateVault(ctx context.Context, vault models.Vault) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateVaultQuery(s.db.builder(), vault)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		if s.classify(err) == UniqueViolation {
			return ErrVaultAlreadyExists
		}
		log.Err(err).Str("func", "*sqlStorage.UpdateVault").Msg("error updating vault")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(res, ErrVaultNotFound)
}

func (s *sqlStorage) DeleteVaultCascade(ctx context.Context, vaultID int64) error {
	return s.WithinTx(ctx, func(tx Storage) error {
		return tx.(*sqlStorage).deleteVaultCascade(ctx, vaultID)
	})
}

func (s *sqlStorage) deleteVaultCascade(ctx context.Context, vaultID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteVaultAccountsQuery(s.db.builder(), vaultID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sqlStorage.DeleteVaultCascade").Msg("error deleting accounts")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err = buildDeleteVaultQuery(s.db.builder(), vaultID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.DeleteVaultCascade").Msg("error deleting vault")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(res, ErrVaultNotFound)
}

func (s *sqlStorage) ListVaults(ctx context.Context) ([]models.Vault, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListVaultsQuery(s.db.builder())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.ListVaults").Msg("error listing vaults")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	vaults := make([]models.Vault, 0)
	for rows.Next() {
		var v models.Vault
		if err = rows.Scan(&v.ID, &v.Name, &v.PassHash, &v.Salt, &v.TwoFactorSecret); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		vaults = append(vaults, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return vaults, nil
}

func (s *sqlStorage) ListAccounts(ctx context.Context, vaultID int64) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListAccountsQuery(s.db.builder(), vaultID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.ListAccounts").Msg("error listing accounts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		var a models.Account
		if err = rows.Scan(&a.ID, &a.VaultID, &a.Title, &a.Username, &a.Password, &a.Description, &a.Type, &a.TwoFactorSecret); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return accounts, nil
}

func (s *sqlStorage) InsertAccounts(ctx context.Context, accounts []models.Account) ([]int64, error) {
	if len(accounts) > 1 && !s.inTx {
		var ids []int64
		err := s.WithinTx(ctx, func(tx Storage) error {
			var err error
			ids, err = tx.InsertAccounts(ctx, accounts)
			return err
		})
		return ids, err
	}

	log := logger.FromContext(ctx)

	ids := make([]int64, 0, len(accounts))
	for _, a := range accounts {
		query, args, err := buildInsertAccountQuery(s.db.builder(), a)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		var id int64
		if err = s.q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if s.classify(err) == ForeignKeyViolation {
				return nil, ErrVaultNotFound
			}
			log.Err(err).Str("func", "*sqlStorage.InsertAccounts").Msg("error inserting account")
			return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *sqlStorage) UpdateAccount(ctx context.Context, account models.Account) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateAccountQuery(s.db.builder(), account)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.UpdateAccount").Msg("error updating account")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(res, ErrAccountNotFound)
}

func (s *sqlStorage) DeleteAccount(ctx context.Context, vaultID, accountID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteAccountQuery(s.db.builder(), vaultID, accountID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.DeleteAccount").Msg("error deleting account")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return expectAffected(res, ErrAccountNotFound)
}

func (s *sqlStorage) WithinTx(ctx context.Context, fn func(tx Storage) error) error {
	if s.inTx {
		return fn(s)
	}

	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*sqlStorage.WithinTx").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(&sqlStorage{db: s.db, q: tx, inTx: true}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Err(rbErr).Str("func", "*sqlStorage.WithinTx").Msg("error rolling back transaction")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*sqlStorage.WithinTx").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
