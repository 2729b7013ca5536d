package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using SQLite
type SettingsRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSettingsRepository creates a new SQLite settings repository
func NewSettingsRepository(pool *ConnectionPool) *SettingsRepository {
	return &SettingsRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// ListSettings returns every row whose key starts with prefix, ordered by key
func (r *SettingsRepository) ListSettings(ctx context.Context, prefix string) ([]persistence.Setting, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT key, value FROM settings WHERE substr(key, 1, ?) = ? ORDER BY key ASC`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var settings []persistence.Setting
	for rows.Next() {
		var setting persistence.Setting
		if err := rows.Scan(&setting.Key, &setting.Value); err != nil {
			return nil, r.mapper.MapError(err)
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return settings, nil
}

// PutSettings upserts every row in a single transaction
func (r *SettingsRepository) PutSettings(ctx context.Context, settings []persistence.Setting) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, setting := range settings {
			key := strings.TrimSpace(setting.Key)
			if key == "" {
				return persistence.ErrConstraintViolation
			}
			_, err := r.helper.ExecTx(ctx, tx,
				`INSERT INTO settings (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				key, setting.Value,
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}
