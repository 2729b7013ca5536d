package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/eligibility"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
)

// memoryStore is an in-memory stand-in for the persistence adapters. It
// enforces the same uniqueness rules as the database schema.
type memoryStore struct {
	users    map[string]UserCredentials
	requests map[string]ShiftRequest
	shifts   map[string]ConfirmedShift
	settings map[string]string

	listErr   error
	lastQuery LedgerFilter
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]UserCredentials),
		requests: make(map[string]ShiftRequest),
		shifts:   make(map[string]ConfirmedShift),
		settings: make(map[string]string),
	}
}

func (m *memoryStore) addUser(id, username, displayName string, isAdmin bool) User {
	user := User{ID: id, Username: username, DisplayName: displayName, IsAdmin: isAdmin}
	m.users[id] = UserCredentials{User: user}
	return user
}

func (m *memoryStore) CreateUser(ctx context.Context, creds UserCredentials) (User, error) {
	for _, existing := range m.users {
		if existing.User.Username == creds.User.Username {
			return User{}, persistence.ErrDuplicate
		}
	}
	m.users[creds.User.ID] = creds
	return creds.User, nil
}

func (m *memoryStore) GetUser(ctx context.Context, id string) (User, error) {
	creds, ok := m.users[id]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	return creds.User, nil
}

func (m *memoryStore) GetUserCredentialsByUsername(ctx context.Context, username string) (UserCredentials, error) {
	for _, creds := range m.users {
		if creds.User.Username == username {
			return creds, nil
		}
	}
	return UserCredentials{}, persistence.ErrNotFound
}

func (m *memoryStore) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.users))
	for _, creds := range m.users {
		out = append(out, creds.User)
	}
	return out, nil
}

func (m *memoryStore) HasAdmin(ctx context.Context) (bool, error) {
	for _, creds := range m.users {
		if creds.User.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) DeleteUser(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.users, id)
	for key, request := range m.requests {
		if request.UserID == id {
			delete(m.requests, key)
		}
	}
	for key, shift := range m.shifts {
		if shift.UserID == id {
			delete(m.shifts, key)
		}
	}
	return nil
}

func (m *memoryStore) CreateShiftRequest(ctx context.Context, request ShiftRequest) (ShiftRequest, error) {
	for _, existing := range m.requests {
		if existing.UserID == request.UserID && existing.Date.Equal(request.Date) {
			return ShiftRequest{}, persistence.ErrDuplicate
		}
	}
	m.requests[request.ID] = request
	return request, nil
}

func (m *memoryStore) GetShiftRequest(ctx context.Context, id string) (ShiftRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return ShiftRequest{}, persistence.ErrNotFound
	}
	return request, nil
}

func (m *memoryStore) UpdateShiftRequest(ctx context.Context, request ShiftRequest) (ShiftRequest, error) {
	if _, ok := m.requests[request.ID]; !ok {
		return ShiftRequest{}, persistence.ErrNotFound
	}
	for _, existing := range m.requests {
		if existing.ID != request.ID && existing.UserID == request.UserID && existing.Date.Equal(request.Date) {
			return ShiftRequest{}, persistence.ErrDuplicate
		}
	}
	m.requests[request.ID] = request
	return request, nil
}

func (m *memoryStore) DeleteShiftRequest(ctx context.Context, id string) error {
	if _, ok := m.requests[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

func (m *memoryStore) ListShiftRequests(ctx context.Context, filter LedgerFilter) ([]ShiftRequest, error) {
	m.lastQuery = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []ShiftRequest
	for _, request := range m.requests {
		if matchesLedger(filter, request.UserID, request.Date) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateConfirmedShift(ctx context.Context, shift ConfirmedShift) (ConfirmedShift, error) {
	for _, existing := range m.shifts {
		if existing.UserID == shift.UserID && existing.Date.Equal(shift.Date) {
			return ConfirmedShift{}, persistence.ErrDuplicate
		}
	}
	m.shifts[shift.ID] = shift
	return shift, nil
}

func (m *memoryStore) GetConfirmedShift(ctx context.Context, id string) (ConfirmedShift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return ConfirmedShift{}, persistence.ErrNotFound
	}
	return shift, nil
}

func (m *memoryStore) UpdateConfirmedShift(ctx context.Context, shift ConfirmedShift) (ConfirmedShift, error) {
	if _, ok := m.shifts[shift.ID]; !ok {
		return ConfirmedShift{}, persistence.ErrNotFound
	}
	for _, existing := range m.shifts {
		if existing.ID != shift.ID && existing.UserID == shift.UserID && existing.Date.Equal(shift.Date) {
			return ConfirmedShift{}, persistence.ErrDuplicate
		}
	}
	m.shifts[shift.ID] = shift
	return shift, nil
}

func (m *memoryStore) DeleteConfirmedShift(ctx context.Context, id string) error {
	if _, ok := m.shifts[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.shifts, id)
	return nil
}

func (m *memoryStore) ListConfirmedShifts(ctx context.Context, filter LedgerFilter) ([]ConfirmedShift, error) {
	m.lastQuery = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []ConfirmedShift
	for _, shift := range m.shifts {
		if matchesLedger(filter, shift.UserID, shift.Date) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (m *memoryStore) ListSettings(ctx context.Context, prefix string) (map[string]string, error) {
	out := make(map[string]string)
	for key, value := range m.settings {
		if strings.HasPrefix(key, prefix) {
			out[key] = value
		}
	}
	return out, nil
}

func (m *memoryStore) PutSettings(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		m.settings[key] = value
	}
	return nil
}

func (m *memoryStore) enableWeekdays(days ...time.Weekday) {
	var settings eligibility.Settings
	for _, day := range days {
		switch day {
		case time.Monday:
			settings.Monday = true
		case time.Tuesday:
			settings.Tuesday = true
		case time.Wednesday:
			settings.Wednesday = true
		case time.Thursday:
			settings.Thursday = true
		case time.Friday:
			settings.Friday = true
		case time.Saturday:
			settings.Saturday = true
		case time.Sunday:
			settings.Sunday = true
		}
	}
	for key, value := range settings.KeyValues() {
		m.settings[key] = value
	}
}

func matchesLedger(filter LedgerFilter, userID string, date time.Time) bool {
	if filter.UserID != "" && filter.UserID != userID {
		return false
	}
	if filter.From != nil && date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !date.Before(*filter.To) {
		return false
	}
	return true
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
}

func mustDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}
