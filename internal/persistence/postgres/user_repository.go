package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// UserRepository implements persistence.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, display_name, password_hash, is_admin, created_at, updated_at`

// CreateUser inserts a new user.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		strings.TrimSpace(user.Username),
		user.DisplayName,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	return mapError(err)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByUsername retrieves a user by login name.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (persistence.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// ListUsers returns every user ordered by username.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, mapError(rows.Err())
}

// HasAdmin reports whether at least one administrator exists.
func (r *UserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE is_admin)`).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// DeleteUser removes a user and every ledger row they own in one transaction.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM shift_requests WHERE user_id = $1`, id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM confirmed_shifts WHERE user_id = $1`, id); err != nil {
			return mapError(err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return mapError(err)
		}
		return affectedOrNotFound(tag)
	})
}

func scanUser(row pgx.Row) (persistence.User, error) {
	var user persistence.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}
