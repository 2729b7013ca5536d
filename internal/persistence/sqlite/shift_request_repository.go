package sqlite

import (
	"context"
	"database/sql"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// ShiftRequestRepository implements persistence.ShiftRequestRepository using SQLite
type ShiftRequestRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewShiftRequestRepository creates a new SQLite shift request repository
func NewShiftRequestRepository(pool *ConnectionPool) *ShiftRequestRepository {
	return &ShiftRequestRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const shiftRequestSelect = `
	SELECT sr.id, sr.user_id, sr.date, sr.can_work, sr.description, sr.start_time, sr.end_time,
	       sr.created_at, sr.updated_at, u.username, u.display_name, u.is_admin
	FROM shift_requests sr
	JOIN users u ON u.id = sr.user_id`

// CreateShiftRequest inserts a new shift request
func (r *ShiftRequestRepository) CreateShiftRequest(ctx context.Context, request persistence.ShiftRequest) error {
	if request.ID == "" || request.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO shift_requests (id, user_id, date, can_work, description, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		request.ID,
		request.UserID,
		formatDate(request.Date),
		request.CanWork,
		nullableString(request.Description),
		formatNullableTimestamp(request.StartTime),
		formatNullableTimestamp(request.EndTime),
		formatTimestamp(request.CreatedAt),
		formatTimestamp(request.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateShiftRequest overwrites the mutable columns of an existing request
func (r *ShiftRequestRepository) UpdateShiftRequest(ctx context.Context, request persistence.ShiftRequest) error {
	query := `
		UPDATE shift_requests
		SET date = ?, can_work = ?, description = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		formatDate(request.Date),
		request.CanWork,
		nullableString(request.Description),
		formatNullableTimestamp(request.StartTime),
		formatNullableTimestamp(request.EndTime),
		formatTimestamp(request.UpdatedAt),
		request.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

// GetShiftRequest retrieves a shift request with its owner
func (r *ShiftRequestRepository) GetShiftRequest(ctx context.Context, id string) (persistence.ShiftRequest, error) {
	if id == "" {
		return persistence.ShiftRequest{}, persistence.ErrNotFound
	}
	return r.scan(r.helper.QueryRow(ctx, shiftRequestSelect+` WHERE sr.id = ?`, id))
}

// ListShiftRequests returns requests matching filter ordered by date
func (r *ShiftRequestRepository) ListShiftRequests(ctx context.Context, filter persistence.LedgerFilter) ([]persistence.ShiftRequest, error) {
	where, args := ledgerWhere("sr", filter)

	rows, err := r.helper.Query(ctx, shiftRequestSelect+where+` ORDER BY sr.date ASC, sr.id ASC`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var requests []persistence.ShiftRequest
	for rows.Next() {
		request, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return requests, nil
}

// DeleteShiftRequest removes a shift request by ID
func (r *ShiftRequestRepository) DeleteShiftRequest(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM shift_requests WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return rowsAffectedOrNotFound(result)
}

func (r *ShiftRequestRepository) scan(row rowScanner) (persistence.ShiftRequest, error) {
	var (
		request                  persistence.ShiftRequest
		dateStr                  string
		description              sql.NullString
		startStr, endStr         sql.NullString
		createdAtStr, updatedStr string
	)

	err := row.Scan(
		&request.ID,
		&request.UserID,
		&dateStr,
		&request.CanWork,
		&description,
		&startStr,
		&endStr,
		&createdAtStr,
		&updatedStr,
		&request.Owner.Username,
		&request.Owner.DisplayName,
		&request.Owner.IsAdmin,
	)
	if err != nil {
		return persistence.ShiftRequest{}, r.mapper.MapError(err)
	}
	request.Owner.ID = request.UserID

	if request.Date, err = parseDate(dateStr); err != nil {
		return persistence.ShiftRequest{}, err
	}
	if description.Valid {
		value := description.String
		request.Description = &value
	}
	if request.StartTime, err = parseNullableTimestamp("start_time", startStr); err != nil {
		return persistence.ShiftRequest{}, err
	}
	if request.EndTime, err = parseNullableTimestamp("end_time", endStr); err != nil {
		return persistence.ShiftRequest{}, err
	}
	if request.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return persistence.ShiftRequest{}, err
	}
	if request.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return persistence.ShiftRequest{}, err
	}
	return request, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
