// Package postgres implements the persistence repositories on PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/persistence/migrations"
)

// PostgreSQL error codes mapped onto persistence sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// Storage bundles every PostgreSQL repository behind one pool.
type Storage struct {
	*UserRepository
	*ShiftRequestRepository
	*ConfirmedShiftRepository
	*SettingsRepository

	pool *pgxpool.Pool
}

var _ persistence.Store = (*Storage)(nil)

// Open creates a pool for connString and verifies it with a ping.
func Open(ctx context.Context, connString string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Storage{
		UserRepository:           &UserRepository{pool: pool},
		ShiftRequestRepository:   &ShiftRequestRepository{pool: pool},
		ConfirmedShiftRepository: &ConfirmedShiftRepository{pool: pool},
		SettingsRepository:       &SettingsRepository{pool: pool},
		pool:                     pool,
	}, nil
}

// Pool returns the underlying connection pool.
func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

// Migrate applies the embedded schema. goose needs a *sql.DB, so one is
// opened on top of the pool for the duration of the call.
func (s *Storage) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := migrations.Up(ctx, db, migrations.DialectPostgres); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

// SchemaVersion reports the latest applied migration.
func (s *Storage) SchemaVersion(ctx context.Context) (int64, error) {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	migrator, err := migrations.NewMigrator(db, migrations.DialectPostgres)
	if err != nil {
		return 0, err
	}
	return migrator.Version(ctx)
}

// Close releases the pool.
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// mapError converts driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return persistence.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", persistence.ErrDuplicate, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", persistence.ErrForeignKeyViolation, pgErr.ConstraintName)
		case codeNotNullViolation, codeCheckViolation:
			return fmt.Errorf("%w: %s", persistence.ErrConstraintViolation, pgErr.Message)
		}
	}
	return err
}

func affectedOrNotFound(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ledgerWhere builds the WHERE clause shared by the ledger list queries,
// numbering placeholders from 1.
func ledgerWhere(alias string, filter persistence.LedgerFilter) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)
	add := func(expr string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s.%s $%d", alias, expr, len(args)))
	}
	if filter.UserID != "" {
		add("user_id =", filter.UserID)
	}
	if filter.DateFrom != nil {
		add("date >=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("date <", *filter.DateTo)
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
