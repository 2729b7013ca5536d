package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	HasAdmin(ctx context.Context) (bool, error)
	// DeleteUser removes the user together with every shift request and
	// confirmed shift they own.
	DeleteUser(ctx context.Context, id string) error
}

// LedgerFilter narrows shift request and confirmed shift queries.
// DateFrom is inclusive and DateTo exclusive.
type LedgerFilter struct {
	UserID   string
	DateFrom *time.Time
	DateTo   *time.Time
}

// ShiftRequestRepository stores user availability records.
type ShiftRequestRepository interface {
	CreateShiftRequest(ctx context.Context, request ShiftRequest) error
	UpdateShiftRequest(ctx context.Context, request ShiftRequest) error
	GetShiftRequest(ctx context.Context, id string) (ShiftRequest, error)
	ListShiftRequests(ctx context.Context, filter LedgerFilter) ([]ShiftRequest, error)
	DeleteShiftRequest(ctx context.Context, id string) error
}

// ConfirmedShiftRepository stores finalized shift assignments.
type ConfirmedShiftRepository interface {
	CreateConfirmedShift(ctx context.Context, shift ConfirmedShift) error
	UpdateConfirmedShift(ctx context.Context, shift ConfirmedShift) error
	GetConfirmedShift(ctx context.Context, id string) (ConfirmedShift, error)
	ListConfirmedShifts(ctx context.Context, filter LedgerFilter) ([]ConfirmedShift, error)
	DeleteConfirmedShift(ctx context.Context, id string) error
}

// SettingsRepository stores key/value configuration rows.
type SettingsRepository interface {
	// ListSettings returns every setting whose key starts with prefix.
	ListSettings(ctx context.Context, prefix string) ([]Setting, error)
	// PutSettings upserts all values atomically.
	PutSettings(ctx context.Context, settings []Setting) error
}

// Store bundles every repository behind one backend connection.
type Store interface {
	UserRepository
	ShiftRequestRepository
	ConfirmedShiftRepository
	SettingsRepository
	Migrate(ctx context.Context) error
	Close() error
}
