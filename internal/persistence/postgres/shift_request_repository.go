package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// ShiftRequestRepository implements persistence.ShiftRequestRepository using PostgreSQL.
type ShiftRequestRepository struct {
	pool *pgxpool.Pool
}

const shiftRequestSelect = `
	SELECT sr.id, sr.user_id, sr.date, sr.can_work, sr.description, sr.start_time, sr.end_time,
	       sr.created_at, sr.updated_at, u.username, u.display_name, u.is_admin
	FROM shift_requests sr
	JOIN users u ON u.id = sr.user_id`

// CreateShiftRequest inserts a new shift request.
func (r *ShiftRequestRepository) CreateShiftRequest(ctx context.Context, request persistence.ShiftRequest) error {
	if request.ID == "" || request.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO shift_requests (id, user_id, date, can_work, description, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		request.ID,
		request.UserID,
		request.Date,
		request.CanWork,
		request.Description,
		request.StartTime,
		request.EndTime,
		request.CreatedAt.UTC(),
		request.UpdatedAt.UTC(),
	)
	return mapError(err)
}

// UpdateShiftRequest overwrites the mutable columns of an existing request.
func (r *ShiftRequestRepository) UpdateShiftRequest(ctx context.Context, request persistence.ShiftRequest) error {
	query := `
		UPDATE shift_requests
		SET date = $1, can_work = $2, description = $3, start_time = $4, end_time = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.pool.Exec(ctx, query,
		request.Date,
		request.CanWork,
		request.Description,
		request.StartTime,
		request.EndTime,
		request.UpdatedAt.UTC(),
		request.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return affectedOrNotFound(tag)
}

// GetShiftRequest retrieves a request with its owner.
func (r *ShiftRequestRepository) GetShiftRequest(ctx context.Context, id string) (persistence.ShiftRequest, error) {
	if id == "" {
		return persistence.ShiftRequest{}, persistence.ErrNotFound
	}
	return scanShiftRequest(r.pool.QueryRow(ctx, shiftRequestSelect+` WHERE sr.id = $1`, id))
}

// ListShiftRequests returns matching requests ordered by date.
func (r *ShiftRequestRepository) ListShiftRequests(ctx context.Context, filter persistence.LedgerFilter) ([]persistence.ShiftRequest, error) {
	where, args := ledgerWhere("sr", filter)
	rows, err := r.pool.Query(ctx, shiftRequestSelect+where+` ORDER BY sr.date ASC, sr.id ASC`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var requests []persistence.ShiftRequest
	for rows.Next() {
		request, err := scanShiftRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, mapError(rows.Err())
}

// DeleteShiftRequest removes a request.
func (r *ShiftRequestRepository) DeleteShiftRequest(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shift_requests WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return affectedOrNotFound(tag)
}

func scanShiftRequest(row pgx.Row) (persistence.ShiftRequest, error) {
	var request persistence.ShiftRequest
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.Date,
		&request.CanWork,
		&request.Description,
		&request.StartTime,
		&request.EndTime,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.Owner.Username,
		&request.Owner.DisplayName,
		&request.Owner.IsAdmin,
	)
	if err != nil {
		return persistence.ShiftRequest{}, mapError(err)
	}
	request.Owner.ID = request.UserID
	request.CreatedAt = request.CreatedAt.UTC()
	request.UpdatedAt = request.UpdatedAt.UTC()
	return request, nil
}
