package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/eligibility"
	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

// ShiftRequestRepository captures the persistence interactions needed by the service.
type ShiftRequestRepository interface {
	CreateShiftRequest(ctx context.Context, request ShiftRequest) (ShiftRequest, error)
	GetShiftRequest(ctx context.Context, id string) (ShiftRequest, error)
	UpdateShiftRequest(ctx context.Context, request ShiftRequest) (ShiftRequest, error)
	DeleteShiftRequest(ctx context.Context, id string) error
	ListShiftRequests(ctx context.Context, filter LedgerFilter) ([]ShiftRequest, error)
}

// DayOfWeekSource supplies the current weekday eligibility flags.
type DayOfWeekSource interface {
	CurrentDayOfWeekSettings(ctx context.Context) (eligibility.Settings, error)
}

// ShiftRequestService manages users' availability submissions.
type ShiftRequestService struct {
	requests    ShiftRequestRepository
	calendar    DayOfWeekSource
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewShiftRequestService wires dependencies for shift request operations.
func NewShiftRequestService(requests ShiftRequestRepository, calendar DayOfWeekSource, idGenerator func() string, now func() time.Time) *ShiftRequestService {
	return NewShiftRequestServiceWithLogger(requests, calendar, idGenerator, now, nil)
}

// NewShiftRequestServiceWithLogger wires dependencies with a specified logger.
func NewShiftRequestServiceWithLogger(requests ShiftRequestRepository, calendar DayOfWeekSource, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ShiftRequestService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ShiftRequestService{
		requests:    requests,
		calendar:    calendar,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ShiftRequestService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ShiftRequestService", operation, attrs...)
}

// ListShiftRequests returns the caller's requests, or every user's requests
// for administrators when AllUsers is set.
func (s *ShiftRequestService) ListShiftRequests(ctx context.Context, params ListShiftRequestsParams) ([]ShiftRequest, error) {
	if s == nil {
		return nil, fmt.Errorf("ShiftRequestService is nil")
	}
	if s.requests == nil {
		return nil, fmt.Errorf("shift request repository not configured")
	}
	if params.AllUsers && !params.Principal.IsAdmin {
		return nil, ErrForbidden
	}

	from, to, err := resolvePeriod(params.Period)
	if err != nil {
		return nil, err
	}

	filter := LedgerFilter{From: from, To: to}
	if !params.AllUsers {
		filter.UserID = params.Principal.UserID
	}

	requests, err := s.requests.ListShiftRequests(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}

	out := make([]ShiftRequest, len(requests))
	copy(out, requests)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// GetShiftRequest returns a single request to its owner or an administrator.
func (s *ShiftRequestService) GetShiftRequest(ctx context.Context, principal Principal, id string) (ShiftRequest, error) {
	if s == nil {
		return ShiftRequest{}, fmt.Errorf("ShiftRequestService is nil")
	}
	if s.requests == nil {
		return ShiftRequest{}, fmt.Errorf("shift request repository not configured")
	}

	request, err := s.requests.GetShiftRequest(ctx, strings.TrimSpace(id))
	if err != nil {
		return ShiftRequest{}, mapRepoError(err)
	}
	if request.UserID != principal.UserID && !principal.IsAdmin {
		return ShiftRequest{}, ErrForbidden
	}
	return request, nil
}

// CreateShiftRequest records the caller's availability for a class day.
func (s *ShiftRequestService) CreateShiftRequest(ctx context.Context, params CreateShiftRequestParams) (result ShiftRequest, err error) {
	if s == nil {
		err = fmt.Errorf("ShiftRequestService is nil")
		return
	}
	if s.requests == nil || s.calendar == nil {
		err = fmt.Errorf("shift request service dependencies not configured")
		return
	}

	principal := params.Principal
	logger := s.loggerWith(ctx, "CreateShiftRequest", "principal_id", principal.UserID)
	defer func() {
		logOutcome(ctx, logger, err, "shift request creation failed", "shift request created",
			"shift_request_id", result.ID, "date", shifttime.FormatDate(result.Date))
	}()

	if principal.UserID == "" {
		err = ErrUnauthenticated
		return
	}

	input := normalizeShiftRequestInput(params.Input)
	start, end, err := resolveShiftRequestTimes(input)
	if err != nil {
		return
	}

	settings, err := s.calendar.CurrentDayOfWeekSettings(ctx)
	if err != nil {
		return
	}
	if !eligibility.IsEligible(input.Date, settings) {
		err = newValidationError("date", "date is not an eligible class day")
		return
	}

	now := s.now()
	request := ShiftRequest{
		ID:              s.idGenerator(),
		UserID:          principal.UserID,
		UserDisplayName: principal.DisplayName,
		Date:            input.Date,
		CanWork:         input.CanWork,
		Description:     input.Description,
		StartTime:       start,
		EndTime:         end,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	persisted, repoErr := s.requests.CreateShiftRequest(ctx, request)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if persisted.UserDisplayName == "" {
		persisted.UserDisplayName = principal.DisplayName
	}

	result = persisted
	return
}

// UpdateShiftRequest overwrites every mutable field of the caller's own
// request. Eligibility is checked at creation only, so a request on a day that
// has since been disabled stays editable.
func (s *ShiftRequestService) UpdateShiftRequest(ctx context.Context, params UpdateShiftRequestParams) (result ShiftRequest, err error) {
	if s == nil {
		err = fmt.Errorf("ShiftRequestService is nil")
		return
	}
	if s.requests == nil {
		err = fmt.Errorf("shift request repository not configured")
		return
	}

	id := strings.TrimSpace(params.ShiftRequestID)
	logger := s.loggerWith(ctx, "UpdateShiftRequest", "principal_id", params.Principal.UserID, "shift_request_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "shift request update failed", "shift request updated")
	}()

	existing, repoErr := s.requests.GetShiftRequest(ctx, id)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if existing.UserID != params.Principal.UserID {
		err = ErrForbidden
		return
	}

	input := normalizeShiftRequestInput(params.Input)
	start, end, err := resolveShiftRequestTimes(input)
	if err != nil {
		return
	}

	updated := existing
	updated.Date = input.Date
	updated.CanWork = input.CanWork
	updated.Description = input.Description
	updated.StartTime = start
	updated.EndTime = end
	updated.UpdatedAt = s.now()

	persisted, repoErr := s.requests.UpdateShiftRequest(ctx, updated)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}

	result = persisted
	return
}

// DeleteShiftRequest removes the caller's own request.
func (s *ShiftRequestService) DeleteShiftRequest(ctx context.Context, principal Principal, id string) (err error) {
	if s == nil {
		return fmt.Errorf("ShiftRequestService is nil")
	}
	if s.requests == nil {
		return fmt.Errorf("shift request repository not configured")
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "DeleteShiftRequest", "principal_id", principal.UserID, "shift_request_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "shift request delete failed", "shift request deleted")
	}()

	existing, err := s.requests.GetShiftRequest(ctx, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if existing.UserID != principal.UserID {
		err = ErrForbidden
		return
	}

	err = mapRepoError(s.requests.DeleteShiftRequest(ctx, id))
	return
}

func normalizeShiftRequestInput(input ShiftRequestInput) ShiftRequestInput {
	out := ShiftRequestInput{CanWork: input.CanWork}
	if !input.Date.IsZero() {
		out.Date = shifttime.DateOf(input.Date)
	}
	out.Description = trimmedOrNil(input.Description)
	out.StartTime = trimmedOrNil(input.StartTime)
	out.EndTime = trimmedOrNil(input.EndTime)
	return out
}

// resolveShiftRequestTimes validates input and converts the optional preferred
// times into instants anchored on the request date.
func resolveShiftRequestTimes(input ShiftRequestInput) (*time.Time, *time.Time, error) {
	vErr := validateStruct(input)
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if vErr.HasErrors() {
		return nil, nil, vErr
	}

	var start, end *time.Time
	if input.StartTime != nil {
		instant, err := shifttime.ToInstant(*input.StartTime, input.Date)
		if err != nil {
			return nil, nil, err
		}
		start = &instant
	}
	if input.EndTime != nil {
		instant, err := shifttime.ToInstant(*input.EndTime, input.Date)
		if err != nil {
			return nil, nil, err
		}
		end = &instant
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, newValidationError("end_time", "end_time must not be before start_time")
	}
	return start, end, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
