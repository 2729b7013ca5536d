package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using PostgreSQL.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// ListSettings returns every row whose key starts with prefix, ordered by key.
func (r *SettingsRepository) ListSettings(ctx context.Context, prefix string) ([]persistence.Setting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value FROM settings WHERE starts_with(key, $1) ORDER BY key ASC`, prefix)
	if err != nil {
		return nil, mapError(err)
	}

	settings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (persistence.Setting, error) {
		var setting persistence.Setting
		err := row.Scan(&setting.Key, &setting.Value)
		return setting, err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return settings, nil
}

// PutSettings upserts every row in a single transaction.
func (r *SettingsRepository) PutSettings(ctx context.Context, settings []persistence.Setting) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, setting := range settings {
			key := strings.TrimSpace(setting.Key)
			if key == "" {
				return persistence.ErrConstraintViolation
			}
			_, err := tx.Exec(ctx,
				`INSERT INTO settings (key, value) VALUES ($1, $2)
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
				key, setting.Value,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}
