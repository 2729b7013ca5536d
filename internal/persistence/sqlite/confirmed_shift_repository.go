package sqlite

import (
	"context"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// ConfirmedShiftRepository implements persistence.ConfirmedShiftRepository using SQLite
type ConfirmedShiftRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewConfirmedShiftRepository creates a new SQLite confirmed shift repository
func NewConfirmedShiftRepository(pool *ConnectionPool) *ConfirmedShiftRepository {
	return &ConfirmedShiftRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const confirmedShiftSelect = `
	SELECT cs.id, cs.user_id, cs.date, cs.start_time, cs.end_time, cs.created_at, cs.updated_at,
	       u.username, u.display_name, u.is_admin
	FROM confirmed_shifts cs
	JOIN users u ON u.id = cs.user_id`

// CreateConfirmedShift inserts a new confirmed shift
func (r *ConfirmedShiftRepository) CreateConfirmedShift(ctx context.Context, shift persistence.ConfirmedShift) error {
	if shift.ID == "" || shift.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO confirmed_shifts (id, user_id, date, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		shift.ID,
		shift.UserID,
		formatDate(shift.Date),
		formatTimestamp(shift.StartTime),
		formatTimestamp(shift.EndTime),
		formatTimestamp(shift.CreatedAt),
		formatTimestamp(shift.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateConfirmedShift overwrites every column of an existing shift, including its owner
func (r *ConfirmedShiftRepository) UpdateConfirmedShift(ctx context.Context, shift persistence.ConfirmedShift) error {
	query := `
		UPDATE confirmed_shifts
		SET user_id = ?, date = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		shift.UserID,
		formatDate(shift.Date),
		formatTimestamp(shift.StartTime),
		formatTimestamp(shift.EndTime),
		formatTimestamp(shift.UpdatedAt),
		shift.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetConfirmedShift retrieves a confirmed shift with its owner
func (r *ConfirmedShiftRepository) GetConfirmedShift(ctx context.Context, id string) (persistence.ConfirmedShift, error) {
	if id == "" {
		return persistence.ConfirmedShift{}, persistence.ErrNotFound
	}
	return r.scan(r.helper.QueryRow(ctx, confirmedShiftSelect+` WHERE cs.id = ?`, id))
}

// ListConfirmedShifts returns shifts matching filter ordered by date and start
func (r *ConfirmedShiftRepository) ListConfirmedShifts(ctx context.Context, filter persistence.LedgerFilter) ([]persistence.ConfirmedShift, error) {
	where, args := ledgerWhere("cs", filter)

	rows, err := r.helper.Query(ctx, confirmedShiftSelect+where+` ORDER BY cs.date ASC, cs.start_time ASC, cs.id ASC`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var shifts []persistence.ConfirmedShift
	for rows.Next() {
		shift, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return shifts, nil
}

// DeleteConfirmedShift removes a confirmed shift by ID
func (r *ConfirmedShiftRepository) DeleteConfirmedShift(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM confirmed_shifts WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

func (r *ConfirmedShiftRepository) scan(row rowScanner) (persistence.ConfirmedShift, error) {
	var (
		shift                      persistence.ConfirmedShift
		dateStr, startStr, endStr  string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&shift.ID,
		&shift.UserID,
		&dateStr,
		&startStr,
		&endStr,
		&createdAtStr,
		&updatedAtStr,
		&shift.Owner.Username,
		&shift.Owner.DisplayName,
		&shift.Owner.IsAdmin,
	)
	if err != nil {
		return persistence.ConfirmedShift{}, r.mapper.MapError(err)
	}
	shift.Owner.ID = shift.UserID

	if shift.Date, err = parseDate(dateStr); err != nil {
		return persistence.ConfirmedShift{}, err
	}
	if shift.StartTime, err = parseTimestamp("start_time", startStr); err != nil {
		return persistence.ConfirmedShift{}, err
	}
	if shift.EndTime, err = parseTimestamp("end_time", endStr); err != nil {
		return persistence.ConfirmedShift{}, err
	}
	if shift.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return persistence.ConfirmedShift{}, err
	}
	if shift.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return persistence.ConfirmedShift{}, err
	}
	return shift, nil
}
