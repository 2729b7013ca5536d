package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

// ConfirmedShiftRepository captures the persistence interactions needed by the service.
type ConfirmedShiftRepository interface {
	CreateConfirmedShift(ctx context.Context, shift ConfirmedShift) (ConfirmedShift, error)
	GetConfirmedShift(ctx context.Context, id string) (ConfirmedShift, error)
	UpdateConfirmedShift(ctx context.Context, shift ConfirmedShift) (ConfirmedShift, error)
	DeleteConfirmedShift(ctx context.Context, id string) error
	ListConfirmedShifts(ctx context.Context, filter LedgerFilter) ([]ConfirmedShift, error)
}

// UserDirectory exposes user lookup operations.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
}

// ConfirmedShiftService manages administrator-assigned shifts.
type ConfirmedShiftService struct {
	shifts      ConfirmedShiftRepository
	users       UserDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewConfirmedShiftService wires dependencies for confirmed shift operations.
func NewConfirmedShiftService(shifts ConfirmedShiftRepository, users UserDirectory, idGenerator func() string, now func() time.Time) *ConfirmedShiftService {
	return NewConfirmedShiftServiceWithLogger(shifts, users, idGenerator, now, nil)
}

// NewConfirmedShiftServiceWithLogger wires dependencies with a specified logger.
func NewConfirmedShiftServiceWithLogger(shifts ConfirmedShiftRepository, users UserDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ConfirmedShiftService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ConfirmedShiftService{
		shifts:      shifts,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ConfirmedShiftService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ConfirmedShiftService", operation, attrs...)
}

// ListConfirmedShifts returns the caller's shifts (ScopeSelf) or everyone's
// (ScopeAll). Both scopes are open to any authenticated principal.
func (s *ConfirmedShiftService) ListConfirmedShifts(ctx context.Context, params ListConfirmedShiftsParams) ([]ConfirmedShift, error) {
	if s == nil {
		return nil, fmt.Errorf("ConfirmedShiftService is nil")
	}
	if s.shifts == nil {
		return nil, fmt.Errorf("confirmed shift repository not configured")
	}

	filter := LedgerFilter{}
	switch params.Scope {
	case ScopeSelf, "":
		filter.UserID = params.Principal.UserID
	case ScopeAll:
	default:
		return nil, newValidationError("scope", "scope is invalid")
	}

	from, to, err := resolvePeriod(params.Period)
	if err != nil {
		return nil, err
	}
	filter.From, filter.To = from, to

	shifts, err := s.shifts.ListConfirmedShifts(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}

	out := make([]ConfirmedShift, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, renderConfirmedShift(shift))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartLocal != out[j].StartLocal {
			return out[i].StartLocal < out[j].StartLocal
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateConfirmedShift assigns a shift to a user. Only administrators may call it.
func (s *ConfirmedShiftService) CreateConfirmedShift(ctx context.Context, params CreateConfirmedShiftParams) (result ConfirmedShift, err error) {
	if s == nil {
		err = fmt.Errorf("ConfirmedShiftService is nil")
		return
	}
	if s.shifts == nil || s.users == nil {
		err = fmt.Errorf("confirmed shift service dependencies not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateConfirmedShift", "principal_id", params.Principal.UserID)
	defer func() {
		logOutcome(ctx, logger, err, "confirmed shift creation failed", "confirmed shift created",
			"confirmed_shift_id", result.ID, "user_id", result.UserID)
	}()

	if !params.Principal.IsAdmin {
		err = ErrForbidden
		return
	}

	input := normalizeConfirmedShiftInput(params.Input)
	start, end, err := resolveConfirmedShiftTimes(input)
	if err != nil {
		return
	}

	owner, repoErr := s.users.GetUser(ctx, input.UserID)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}

	now := s.now()
	shift := ConfirmedShift{
		ID:        s.idGenerator(),
		UserID:    owner.ID,
		Date:      input.Date,
		StartTime: start,
		EndTime:   end,
		User:      profileOf(owner),
		CreatedAt: now,
		UpdatedAt: now,
	}

	persisted, repoErr := s.shifts.CreateConfirmedShift(ctx, shift)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if persisted.User.ID == "" {
		persisted.User = profileOf(owner)
	}

	result = renderConfirmedShift(persisted)
	return
}

// UpdateConfirmedShift overwrites every field of a shift, including its owner.
func (s *ConfirmedShiftService) UpdateConfirmedShift(ctx context.Context, params UpdateConfirmedShiftParams) (result ConfirmedShift, err error) {
	if s == nil {
		err = fmt.Errorf("ConfirmedShiftService is nil")
		return
	}
	if s.shifts == nil || s.users == nil {
		err = fmt.Errorf("confirmed shift service dependencies not configured")
		return
	}

	id := strings.TrimSpace(params.ConfirmedShiftID)
	logger := s.loggerWith(ctx, "UpdateConfirmedShift", "principal_id", params.Principal.UserID, "confirmed_shift_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "confirmed shift update failed", "confirmed shift updated", "user_id", result.UserID)
	}()

	if !params.Principal.IsAdmin {
		err = ErrForbidden
		return
	}

	existing, repoErr := s.shifts.GetConfirmedShift(ctx, id)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}

	input := normalizeConfirmedShiftInput(params.Input)
	start, end, err := resolveConfirmedShiftTimes(input)
	if err != nil {
		return
	}

	owner, repoErr := s.users.GetUser(ctx, input.UserID)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}

	updated := existing
	updated.UserID = owner.ID
	updated.Date = input.Date
	updated.StartTime = start
	updated.EndTime = end
	updated.User = profileOf(owner)
	updated.UpdatedAt = s.now()

	persisted, repoErr := s.shifts.UpdateConfirmedShift(ctx, updated)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if persisted.User.ID != owner.ID {
		persisted.User = profileOf(owner)
	}

	result = renderConfirmedShift(persisted)
	return
}

// DeleteConfirmedShift removes a shift. Only administrators may call it.
func (s *ConfirmedShiftService) DeleteConfirmedShift(ctx context.Context, principal Principal, id string) (err error) {
	if s == nil {
		return fmt.Errorf("ConfirmedShiftService is nil")
	}
	if s.shifts == nil {
		return fmt.Errorf("confirmed shift repository not configured")
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "DeleteConfirmedShift", "principal_id", principal.UserID, "confirmed_shift_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "confirmed shift delete failed", "confirmed shift deleted")
	}()

	if !principal.IsAdmin {
		err = ErrForbidden
		return
	}

	err = mapRepoError(s.shifts.DeleteConfirmedShift(ctx, id))
	return
}

func normalizeConfirmedShiftInput(input ConfirmedShiftInput) ConfirmedShiftInput {
	out := ConfirmedShiftInput{
		UserID:    strings.TrimSpace(input.UserID),
		StartTime: strings.TrimSpace(input.StartTime),
		EndTime:   strings.TrimSpace(input.EndTime),
	}
	if !input.Date.IsZero() {
		out.Date = shifttime.DateOf(input.Date)
	}
	return out
}

func resolveConfirmedShiftTimes(input ConfirmedShiftInput) (time.Time, time.Time, error) {
	vErr := validateStruct(input)
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if vErr.HasErrors() {
		return time.Time{}, time.Time{}, vErr
	}

	start, err := shifttime.ToInstant(input.StartTime, input.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := shifttime.ToInstant(input.EndTime, input.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, newValidationError("end_time", "end_time must not be before start_time")
	}
	return start, end, nil
}

// renderConfirmedShift projects the stored instants onto the shift's own date
// so the local strings never depend on the UTC date of the instant.
func renderConfirmedShift(shift ConfirmedShift) ConfirmedShift {
	shift.StartLocal = shifttime.ToLocalString(shift.StartTime)
	shift.EndLocal = shifttime.ToLocalString(shift.EndTime)
	if start, err := shifttime.ToInstant(shift.StartLocal, shift.Date); err == nil {
		shift.StartTime = start
	}
	if end, err := shifttime.ToInstant(shift.EndLocal, shift.Date); err == nil {
		shift.EndTime = end
	}
	return shift
}

func profileOf(user User) UserProfile {
	return UserProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	}
}
