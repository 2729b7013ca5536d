package main

import (
	"context"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, creds application.UserCredentials) (application.User, error) {
	model := toPersistenceUser(creds.User, creds.PasswordHash)
	if err := a.repo.CreateUser(ctx, model); err != nil {
		return application.User{}, err
	}
	return toApplicationUser(model), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	model, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(model), nil
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userRepositoryAdapter) HasAdmin(ctx context.Context) (bool, error) {
	return a.repo.HasAdmin(ctx)
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByUsername(ctx context.Context, username string) (application.UserCredentials, error) {
	model, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{User: toApplicationUser(model), PasswordHash: model.PasswordHash}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	model, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(model), nil
}

type shiftRequestRepositoryAdapter struct {
	repo persistence.ShiftRequestRepository
}

func newShiftRequestRepositoryAdapter(repo persistence.ShiftRequestRepository) *shiftRequestRepositoryAdapter {
	return &shiftRequestRepositoryAdapter{repo: repo}
}

func (a *shiftRequestRepositoryAdapter) CreateShiftRequest(ctx context.Context, request application.ShiftRequest) (application.ShiftRequest, error) {
	if err := a.repo.CreateShiftRequest(ctx, toPersistenceShiftRequest(request)); err != nil {
		return application.ShiftRequest{}, err
	}
	return request, nil
}

func (a *shiftRequestRepositoryAdapter) GetShiftRequest(ctx context.Context, id string) (application.ShiftRequest, error) {
	model, err := a.repo.GetShiftRequest(ctx, id)
	if err != nil {
		return application.ShiftRequest{}, err
	}
	return toApplicationShiftRequest(model), nil
}

func (a *shiftRequestRepositoryAdapter) UpdateShiftRequest(ctx context.Context, request application.ShiftRequest) (application.ShiftRequest, error) {
	if err := a.repo.UpdateShiftRequest(ctx, toPersistenceShiftRequest(request)); err != nil {
		return application.ShiftRequest{}, err
	}
	return request, nil
}

func (a *shiftRequestRepositoryAdapter) DeleteShiftRequest(ctx context.Context, id string) error {
	return a.repo.DeleteShiftRequest(ctx, id)
}

func (a *shiftRequestRepositoryAdapter) ListShiftRequests(ctx context.Context, filter application.LedgerFilter) ([]application.ShiftRequest, error) {
	models, err := a.repo.ListShiftRequests(ctx, toPersistenceFilter(filter))
	if err != nil {
		return nil, err
	}
	requests := make([]application.ShiftRequest, 0, len(models))
	for _, model := range models {
		requests = append(requests, toApplicationShiftRequest(model))
	}
	return requests, nil
}

type confirmedShiftRepositoryAdapter struct {
	repo persistence.ConfirmedShiftRepository
}

func newConfirmedShiftRepositoryAdapter(repo persistence.ConfirmedShiftRepository) *confirmedShiftRepositoryAdapter {
	return &confirmedShiftRepositoryAdapter{repo: repo}
}

func (a *confirmedShiftRepositoryAdapter) CreateConfirmedShift(ctx context.Context, shift application.ConfirmedShift) (application.ConfirmedShift, error) {
	if err := a.repo.CreateConfirmedShift(ctx, toPersistenceConfirmedShift(shift)); err != nil {
		return application.ConfirmedShift{}, err
	}
	return shift, nil
}

func (a *confirmedShiftRepositoryAdapter) GetConfirmedShift(ctx context.Context, id string) (application.ConfirmedShift, error) {
	model, err := a.repo.GetConfirmedShift(ctx, id)
	if err != nil {
		return application.ConfirmedShift{}, err
	}
	return toApplicationConfirmedShift(model), nil
}

func (a *confirmedShiftRepositoryAdapter) UpdateConfirmedShift(ctx context.Context, shift application.ConfirmedShift) (application.ConfirmedShift, error) {
	if err := a.repo.UpdateConfirmedShift(ctx, toPersistenceConfirmedShift(shift)); err != nil {
		return application.ConfirmedShift{}, err
	}
	return shift, nil
}

func (a *confirmedShiftRepositoryAdapter) DeleteConfirmedShift(ctx context.Context, id string) error {
	return a.repo.DeleteConfirmedShift(ctx, id)
}

func (a *confirmedShiftRepositoryAdapter) ListConfirmedShifts(ctx context.Context, filter application.LedgerFilter) ([]application.ConfirmedShift, error) {
	models, err := a.repo.ListConfirmedShifts(ctx, toPersistenceFilter(filter))
	if err != nil {
		return nil, err
	}
	shifts := make([]application.ConfirmedShift, 0, len(models))
	for _, model := range models {
		shifts = append(shifts, toApplicationConfirmedShift(model))
	}
	return shifts, nil
}

type settingsRepositoryAdapter struct {
	repo persistence.SettingsRepository
}

func newSettingsRepositoryAdapter(repo persistence.SettingsRepository) *settingsRepositoryAdapter {
	return &settingsRepositoryAdapter{repo: repo}
}

func (a *settingsRepositoryAdapter) ListSettings(ctx context.Context, prefix string) (map[string]string, error) {
	rows, err := a.repo.ListSettings(ctx, prefix)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (a *settingsRepositoryAdapter) PutSettings(ctx context.Context, values map[string]string) error {
	rows := make([]persistence.Setting, 0, len(values))
	for key, value := range values {
		rows = append(rows, persistence.Setting{Key: key, Value: value})
	}
	return a.repo.PutSettings(ctx, rows)
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Username:    model.Username,
		DisplayName: model.DisplayName,
		IsAdmin:     model.IsAdmin,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationShiftRequest(model persistence.ShiftRequest) application.ShiftRequest {
	return application.ShiftRequest{
		ID:              model.ID,
		UserID:          model.UserID,
		UserDisplayName: model.Owner.DisplayName,
		Date:            model.Date,
		CanWork:         model.CanWork,
		Description:     cloneString(model.Description),
		StartTime:       cloneTime(model.StartTime),
		EndTime:         cloneTime(model.EndTime),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceShiftRequest(request application.ShiftRequest) persistence.ShiftRequest {
	return persistence.ShiftRequest{
		ID:          request.ID,
		UserID:      request.UserID,
		Date:        request.Date,
		CanWork:     request.CanWork,
		Description: cloneString(request.Description),
		StartTime:   cloneTime(request.StartTime),
		EndTime:     cloneTime(request.EndTime),
		CreatedAt:   request.CreatedAt,
		UpdatedAt:   request.UpdatedAt,
	}
}

func toApplicationConfirmedShift(model persistence.ConfirmedShift) application.ConfirmedShift {
	return application.ConfirmedShift{
		ID:        model.ID,
		UserID:    model.UserID,
		Date:      model.Date,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		User: application.UserProfile{
			ID:          model.Owner.ID,
			Username:    model.Owner.Username,
			DisplayName: model.Owner.DisplayName,
			IsAdmin:     model.Owner.IsAdmin,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceConfirmedShift(shift application.ConfirmedShift) persistence.ConfirmedShift {
	return persistence.ConfirmedShift{
		ID:        shift.ID,
		UserID:    shift.UserID,
		Date:      shift.Date,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		CreatedAt: shift.CreatedAt,
		UpdatedAt: shift.UpdatedAt,
	}
}

func toPersistenceFilter(filter application.LedgerFilter) persistence.LedgerFilter {
	return persistence.LedgerFilter{
		UserID:   filter.UserID,
		DateFrom: cloneTime(filter.From),
		DateTo:   cloneTime(filter.To),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
