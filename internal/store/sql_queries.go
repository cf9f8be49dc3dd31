package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/models"
)

const (
	vaultsTable   = "vaults"
	accountsTable = "accounts"
)

var (
	vaultColumns   = []string{"id", "name", "pass_hash", "salt", "two_factor_secret"}
	accountColumns = []string{"id", "vault_id", "title", "username", "password", "description", "type", "two_factor_secret"}
)

func buildFindVaultByNameQuery(b sq.StatementBuilderType, name string) (string, []any, error) {
	return b.Select(vaultColumns...).
		From(vaultsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

func buildListVaultsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select(vaultColumns...).
		From(vaultsTable).
		OrderBy("name").
		ToSql()
}

func buildInsertVaultQuery(b sq.StatementBuilderType, v models.Vault) (string, []any, error) {
	return b.Insert(vaultsTable).
		Columns("name", "pass_hash", "salt", "two_factor_secret").
		Values(v.Name, v.PassHash, v.Salt, v.TwoFactorSecret).
		Suffix("RETURNING id").
		ToSql()
}

// salt is deliberately absent from the SET list
func buildUpdateVaultQuery(b sq.StatementBuilderType, v models.Vault) (string, []any, error) {
	return b.Update(vaultsTable).
		Set("name", v.Name).
		Set("pass_hash", v.PassHash).
		Set("two_factor_secret", v.TwoFactorSecret).
		Where(sq.Eq{"id": v.ID}).
		ToSql()
}

func buildDeleteVaultAccountsQuery(b sq.StatementBuilderType, vaultID int64) (string, []any, error) {
	return b.Delete(accountsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		ToSql()
}

func buildDeleteVaultQuery(b sq.StatementBuilderType, vaultID int64) (string, []any, error) {
	return b.Delete(vaultsTable).
		Where(sq.Eq{"id": vaultID}).
		ToSql()
}

func buildListAccountsQuery(b sq.StatementBuilderType, vaultID int64) (string, []any, error) {
	return b.Select(accountColumns...).
		From(accountsTable).
		Where(sq.Eq{"vault_id": vaultID}).
		OrderBy("id").
		ToSql()
}

func buildInsertAccountQuery(b sq.StatementBuilderType, a models.Account) (string, []any, error) {
	return b.Insert(accountsTable).
		Columns("vault_id", "title", "username", "password", "description", "type", "two_factor_secret").
		Values(a.VaultID, a.Title, a.Username, a.Password, a.Description, a.Type, a.TwoFactorSecret).
		Suffix("RETURNING id").
		ToSql()
}

func buildUpdateAccountQuery(b sq.StatementBuilderType, a models.Account) (string, []any, error) {
	return b.Update(accountsTable).
		Set("title", a.Title).
		Set("username", a.Username).
		Set("password", a.Password).
		Set("description", a.Description).
		Set("type", a.Type).
		Set("two_factor_secret", a.TwoFactorSecret).
		Where(sq.Eq{"id": a.ID, "vault_id": a.VaultID}).
		ToSql()
}

func buildDeleteAccountQuery(b sq.StatementBuilderType, vaultID, accountID int64) (string, []any, error) {
	return b.Delete(accountsTable).
		Where(sq.Eq{"id": accountID, "vault_id": vaultID}).
		ToSql()
}
