package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
)

// Storages groups the opened storage backend with the resources that must
// be released on shutdown.
type Storages struct {
	// Storage is the backend selected by configuration.
	Storage Storage

	closer func() error
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. For SQL drivers it opens the connection and runs pending schema
// migrations; "file" and "memory" need neither.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Debug().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	var (
		db  *DB
		err error
	)

	switch cfg.DB.Driver {
	case DriverFile:
		s, err := NewFileStorage(cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("file storage error: %w", err)
		}
		return &Storages{Storage: s}, nil
	case DriverMemory:
		return &Storages{Storage: NewMemoryStorage()}, nil
	case DriverSQLite3, DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.DB.Driver, cfg.DB.DSN, log)
	case DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.DB.DSN, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s connection error: %w", cfg.DB.Driver, err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Storage: NewSQLStorage(db),
		closer:  db.Close,
	}, nil
}

// Close releases the underlying connection, if any.
func (s *Storages) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}
