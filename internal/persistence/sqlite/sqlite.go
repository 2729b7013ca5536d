// Package sqlite implements the persistence repositories on SQLite through
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/persistence/migrations"
)

// Storage bundles every SQLite repository behind one connection pool.
type Storage struct {
	*UserRepository
	*ShiftRequestRepository
	*ConfirmedShiftRepository
	*SettingsRepository

	pool *ConnectionPool
}

var _ persistence.Store = (*Storage)(nil)

// Open connects to the database at dsn. Call Migrate before first use.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Storage{
		UserRepository:           NewUserRepository(pool),
		ShiftRequestRepository:   NewShiftRequestRepository(pool),
		ConfirmedShiftRepository: NewConfirmedShiftRepository(pool),
		SettingsRepository:       NewSettingsRepository(pool),
		pool:                     pool,
	}, nil
}

// Pool exposes the underlying connection pool.
func (s *Storage) Pool() *ConnectionPool {
	return s.pool
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := migrations.Up(ctx, s.pool.DB(), migrations.DialectSQLite); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// SchemaVersion reports the latest applied migration.
func (s *Storage) SchemaVersion(ctx context.Context) (int64, error) {
	migrator, err := migrations.NewMigrator(s.pool.DB(), migrations.DialectSQLite)
	if err != nil {
		return 0, err
	}
	return migrator.Version(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
