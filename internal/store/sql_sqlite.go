package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

const (
	// DriverSQLite3 is the cgo SQLite driver (github.com/mattn/go-sqlite3).
	DriverSQLite3 = "sqlite3"
	// DriverSQLite is the pure Go SQLite driver (modernc.org/sqlite).
	DriverSQLite = "sqlite"
)

// NewConnectSQLite opens a SQLite database with the given driver, creating
// the database file with owner-only permissions when it does not exist yet.
func NewConnectSQLite(ctx context.Context, driver, dsn string, log *logger.Logger) (*DB, error) {
	var classifier ErrorClassificator
	switch driver {
	case DriverSQLite3:
		classifier = NewSQLite3ErrorClassifier()
	case DriverSQLite:
		classifier = NewModerncErrorClassifier()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	// db will be in file
	if err := createLocalDBFileIfNotExists(dsn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("driver", driver).Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		dialect:            DialectSQLite,
		errorClassificator: classifier,
		logger:             log,
	}

	return db, nil
}

func createLocalDBFileIfNotExists(dsn string) error {
	dbFile := dsn
	if i := strings.IndexByte(dbFile, '?'); i >= 0 {
		dbFile = dbFile[:i]
	}
	dbFile = strings.TrimPrefix(dbFile, "file:")
	if dbFile == "" || strings.Contains(dbFile, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.OpenFile(dbFile, os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
