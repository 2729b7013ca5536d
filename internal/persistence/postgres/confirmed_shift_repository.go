package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// ConfirmedShiftRepository implements persistence.ConfirmedShiftRepository using PostgreSQL.
type ConfirmedShiftRepository struct {
	pool *pgxpool.Pool
}

const confirmedShiftSelect = `
	SELECT cs.id, cs.user_id, cs.date, cs.start_time, cs.end_time, cs.created_at, cs.updated_at,
	       u.username, u.display_name, u.is_admin
	FROM confirmed_shifts cs
	JOIN users u ON u.id = cs.user_id`

// CreateConfirmedShift inserts a new confirmed shift.
func (r *ConfirmedShiftRepository) CreateConfirmedShift(ctx context.Context, shift persistence.ConfirmedShift) error {
	if shift.ID == "" || shift.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO confirmed_shifts (id, user_id, date, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		shift.ID,
		shift.UserID,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.CreatedAt.UTC(),
		shift.UpdatedAt.UTC(),
	)
	return mapError(err)
}

// UpdateConfirmedShift overwrites an existing shift, including its owner.
func (r *ConfirmedShiftRepository) UpdateConfirmedShift(ctx context.Context, shift persistence.ConfirmedShift) error {
	query := `
		UPDATE confirmed_shifts
		SET user_id = $1, date = $2, start_time = $3, end_time = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.pool.Exec(ctx, query,
		shift.UserID,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.UpdatedAt.UTC(),
		shift.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return affectedOrNotFound(tag)
}

// GetConfirmedShift retrieves a shift with its owner.
func (r *ConfirmedShiftRepository) GetConfirmedShift(ctx context.Context, id string) (persistence.ConfirmedShift, error) {
	if id == "" {
		return persistence.ConfirmedShift{}, persistence.ErrNotFound
	}
	return scanConfirmedShift(r.pool.QueryRow(ctx, confirmedShiftSelect+` WHERE cs.id = $1`, id))
}

// ListConfirmedShifts returns matching shifts ordered by date and start.
func (r *ConfirmedShiftRepository) ListConfirmedShifts(ctx context.Context, filter persistence.LedgerFilter) ([]persistence.ConfirmedShift, error) {
	where, args := ledgerWhere("cs", filter)
	rows, err := r.pool.Query(ctx, confirmedShiftSelect+where+` ORDER BY cs.date ASC, cs.start_time ASC, cs.id ASC`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var shifts []persistence.ConfirmedShift
	for rows.Next() {
		shift, err := scanConfirmedShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, mapError(rows.Err())
}

// DeleteConfirmedShift removes a shift.
func (r *ConfirmedShiftRepository) DeleteConfirmedShift(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM confirmed_shifts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return affectedOrNotFound(tag)
}

func scanConfirmedShift(row pgx.Row) (persistence.ConfirmedShift, error) {
	var shift persistence.ConfirmedShift
	err := row.Scan(
		&shift.ID,
		&shift.UserID,
		&shift.Date,
		&shift.StartTime,
		&shift.EndTime,
		&shift.CreatedAt,
		&shift.UpdatedAt,
		&shift.Owner.Username,
		&shift.Owner.DisplayName,
		&shift.Owner.IsAdmin,
	)
	if err != nil {
		return persistence.ConfirmedShift{}, mapError(err)
	}
	shift.Owner.ID = shift.UserID
	shift.CreatedAt = shift.CreatedAt.UTC()
	shift.UpdatedAt = shift.UpdatedAt.UTC()
	return shift, nil
}
