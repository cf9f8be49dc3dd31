package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrorClassification is the result type returned by
// [ErrorClassificator.Classify]. It tells storage methods which domain error,
// if any, a driver error maps to.
type ErrorClassification int

const (
	// Unclassified covers every error without a dedicated mapping.
	Unclassified ErrorClassification = iota

	// UniqueViolation marks a unique or primary key constraint failure.
	UniqueViolation

	// ForeignKeyViolation marks a reference to a missing row.
	ForeignKeyViolation

	// Retryable indicates that the failed operation may succeed if attempted
	// again (e.g. after a transient connection loss, a deadlock rollback or a
	// busy SQLite database).
	Retryable
)

// ErrorClassificator maps driver-specific errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. It attempts to unwrap err as a
// *pgconn.PgError and delegates to [ClassifyPgError].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return Unclassified
	}

	// Attempt to unwrap to a pgconn.PgError.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return Unclassified
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] based on
// the PostgreSQL error code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return UniqueViolation

	case pgerrcode.ForeignKeyViolation:
		return ForeignKeyViolation

	// Class 08: connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return Retryable

	// Class 40: transaction rollback
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return Retryable

	// Class 57: operator intervention
	case pgerrcode.CannotConnectNow: // 57P03
		return Retryable
	}

	return Unclassified
}

// SQLite3ErrorClassifier implements [ErrorClassificator] for the cgo driver.
type SQLite3ErrorClassifier struct{}

func NewSQLite3ErrorClassifier() *SQLite3ErrorClassifier {
	return &SQLite3ErrorClassifier{}
}

func (c *SQLite3ErrorClassifier) Classify(err error) ErrorClassification {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return Unclassified
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable
	}

	return Unclassified
}

// ModerncErrorClassifier implements [ErrorClassificator] for the pure Go
// SQLite driver.
type ModerncErrorClassifier struct{}

func NewModerncErrorClassifier() *ModerncErrorClassifier {
	return &ModerncErrorClassifier{}
}

func (c *ModerncErrorClassifier) Classify(err error) ErrorClassification {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return Unclassified
	}

	code := sqliteErr.Code()
	switch code {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	}

	// primary result code only, when extended codes are off
	switch code & 0xff {
	case sqlite3lib.SQLITE_CONSTRAINT:
		if strings.Contains(sqliteErr.Error(), "UNIQUE") {
			return UniqueViolation
		}
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return Retryable
	}

	return Unclassified
}
