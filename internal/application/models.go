package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID      string
	Username    string
	DisplayName string
	IsAdmin     bool
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Username    string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserProfile is the public subset of a user attached to ledger rows.
type UserProfile struct {
	ID          string
	Username    string
	DisplayName string
	IsAdmin     bool
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// RegisterInput captures the self-service registration form.
type RegisterInput struct {
	Username    string `name:"username" validate:"required,min=2,max=20"`
	DisplayName string `name:"DisplayName" validate:"required,min=1,max=20"`
	Password    string `name:"password" validate:"required"`
	AdminCode   string `name:"admin_code"`
}

// BootstrapAdminInput captures the first administrator created from the CLI.
type BootstrapAdminInput struct {
	Username    string `name:"username" validate:"required,min=2,max=20"`
	DisplayName string `name:"DisplayName" validate:"required,min=1,max=20"`
	Password    string `name:"password" validate:"required"`
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Username string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User        User
	AccessToken string
	ExpiresAt   time.Time
}

// DeleteUserResult describes the account removed by DeleteUser.
type DeleteUserResult struct {
	UserID      string
	DisplayName string
}

// LedgerFilter narrows ledger repository queries. From is inclusive, To exclusive.
type LedgerFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// MonthFilter optionally restricts a listing to one calendar month. It applies
// only when both Year and Month are set.
type MonthFilter struct {
	Year  *int
	Month *int
}

// ShiftRequestInput captures caller provided shift request fields.
//
// StartTime and EndTime accept "HH:MM" or an ISO-8601 timestamp and are read
// relative to Date.
type ShiftRequestInput struct {
	Date        time.Time
	CanWork     bool
	Description *string `name:"description" validate:"omitempty,max=200"`
	StartTime   *string
	EndTime     *string
}

// ShiftRequest represents a user's availability for one date.
type ShiftRequest struct {
	ID              string
	UserID          string
	UserDisplayName string
	Date            time.Time
	CanWork         bool
	Description     *string
	StartTime       *time.Time
	EndTime         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateShiftRequestParams wraps the data required to create a shift request.
type CreateShiftRequestParams struct {
	Principal Principal
	Input     ShiftRequestInput
}

// UpdateShiftRequestParams wraps the data required to update a shift request.
type UpdateShiftRequestParams struct {
	Principal      Principal
	ShiftRequestID string
	Input          ShiftRequestInput
}

// ListShiftRequestsParams wraps the data required to list shift requests.
// AllUsers selects the administrator view over every user's requests.
type ListShiftRequestsParams struct {
	Principal Principal
	Period    MonthFilter
	AllUsers  bool
}

// ConfirmedShiftScope selects whose confirmed shifts a listing returns.
type ConfirmedShiftScope string

const (
	// ScopeSelf lists only the caller's shifts.
	ScopeSelf ConfirmedShiftScope = "self"
	// ScopeAll lists every user's shifts.
	ScopeAll ConfirmedShiftScope = "all"
)

// ConfirmedShiftInput captures caller provided confirmed shift fields.
type ConfirmedShiftInput struct {
	UserID    string `name:"user_id" validate:"required"`
	Date      time.Time
	StartTime string `name:"start_time" validate:"required"`
	EndTime   string `name:"end_time" validate:"required"`
}

// ConfirmedShift represents a finalized assignment. StartLocal and EndLocal
// are the "HH:MM" JST renderings of StartTime and EndTime.
type ConfirmedShift struct {
	ID         string
	UserID     string
	Date       time.Time
	StartTime  time.Time
	EndTime    time.Time
	StartLocal string
	EndLocal   string
	User       UserProfile
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateConfirmedShiftParams wraps the data required to create a confirmed shift.
type CreateConfirmedShiftParams struct {
	Principal Principal
	Input     ConfirmedShiftInput
}

// UpdateConfirmedShiftParams wraps the data required to update a confirmed shift.
type UpdateConfirmedShiftParams struct {
	Principal        Principal
	ConfirmedShiftID string
	Input            ConfirmedShiftInput
}

// ListConfirmedShiftsParams wraps the data required to list confirmed shifts.
type ListConfirmedShiftsParams struct {
	Principal Principal
	Scope     ConfirmedShiftScope
	Period    MonthFilter
}
