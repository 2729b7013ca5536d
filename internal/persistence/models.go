package persistence

import "time"

// User represents an account that submits shift requests or administers the roster.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the owner profile joined onto ledger rows when they are read.
type UserSummary struct {
	ID          string
	Username    string
	DisplayName string
	IsAdmin     bool
}

// ShiftRequest represents a user's availability for one calendar date.
//
// Date holds the calendar day at midnight UTC. StartTime and EndTime are
// absolute instants.
type ShiftRequest struct {
	ID          string
	UserID      string
	Date        time.Time
	CanWork     bool
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner is populated by read operations only.
	Owner UserSummary
}

// ConfirmedShift represents an administrator-assigned shift for one user and date.
type ConfirmedShift struct {
	ID        string
	UserID    string
	Date      time.Time
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is populated by read operations only.
	Owner UserSummary
}

// Setting is a single key/value configuration row.
type Setting struct {
	Key   string
	Value string
}
