// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/migrations"
)

// Dialect carries what differs between SQL backends: the goose dialect used
// for migrations and the placeholder style used by the query builder.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
}

var (
	DialectSQLite   = Dialect{Name: migrations.DialectSQLite, Placeholder: sq.Question}
	DialectPostgres = Dialect{Name: migrations.DialectPostgres, Placeholder: sq.Dollar}
)

// DB is an open SQL connection pool together with its dialect and driver
// error classification.
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies pending schema migrations for the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect.Name)
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.dialect.Placeholder)
}
