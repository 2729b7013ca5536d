package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/application"
	"github.com/Taka-cst/ShiftManager/internal/persistence"
	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

var (
	userCounter           uint64
	shiftRequestCounter   uint64
	confirmedShiftCounter uint64
)

// referenceTime is a Tuesday morning in JST.
var referenceTime = time.Date(2025, time.July, 1, 9, 0, 0, 0, shifttime.Location())

// ReferenceTime returns the baseline instant fixtures are stamped with.
func ReferenceTime() time.Time {
	return referenceTime
}

// Date returns the calendar day at midnight UTC, the form ledgers store.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ----------------------------- User fixtures -----------------------------

// UserFixture describes an account. Password is the plain text value a test
// logs in with; PasswordHash, when set, is stored instead of hashing it.
type UserFixture struct {
	ID           string
	Username     string
	DisplayName  string
	Password     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type UserOption func(*UserFixture)

// NewUserFixture returns a member account with unique id and username.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:          fmt.Sprintf("user-%03d", idx),
		Username:    fmt.Sprintf("member%03d", idx),
		DisplayName: fmt.Sprintf("メンバー%03d", idx),
		Password:    "password",
		CreatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

func WithUsername(username string) UserOption {
	return func(f *UserFixture) { f.Username = username }
}

func WithDisplayName(name string) UserOption {
	return func(f *UserFixture) { f.DisplayName = name }
}

func WithPassword(password string) UserOption {
	return func(f *UserFixture) {
		f.Password = password
		f.PasswordHash = ""
	}
}

// AsAdmin marks the fixture as an administrator.
func AsAdmin() UserOption {
	return func(f *UserFixture) { f.IsAdmin = true }
}

// Principal returns the identity a request authenticated as this user carries.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{
		UserID:      f.ID,
		Username:    f.Username,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
	}
}

// Persistence returns the row stored for the fixture. The password is hashed
// with the production argon2id parameters unless PasswordHash is set.
func (f UserFixture) Persistence() (persistence.User, error) {
	hash := f.PasswordHash
	if hash == "" {
		var err error
		if hash, err = application.HashPassword(f.Password); err != nil {
			return persistence.User{}, fmt.Errorf("hash fixture password: %w", err)
		}
	}
	return persistence.User{
		ID:           f.ID,
		Username:     f.Username,
		DisplayName:  f.DisplayName,
		PasswordHash: hash,
		IsAdmin:      f.IsAdmin,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}, nil
}

// ------------------------- Shift request fixtures -------------------------

// ShiftRequestFixture describes one availability row. Start and End are
// "HH:MM" clock values read in JST on Date; empty means unset.
type ShiftRequestFixture struct {
	ID          string
	UserID      string
	Date        time.Time
	CanWork     bool
	Description *string
	Start       string
	End         string
	CreatedAt   time.Time
}

type ShiftRequestOption func(*ShiftRequestFixture)

// NewShiftRequestFixture returns an available, untimed request.
func NewShiftRequestFixture(userID string, date time.Time, opts ...ShiftRequestOption) ShiftRequestFixture {
	idx := atomic.AddUint64(&shiftRequestCounter, 1)
	fixture := ShiftRequestFixture{
		ID:        fmt.Sprintf("request-%03d", idx),
		UserID:    userID,
		Date:      date,
		CanWork:   true,
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithShiftRequestID(id string) ShiftRequestOption {
	return func(f *ShiftRequestFixture) { f.ID = id }
}

// Unavailable marks the request as "cannot work".
func Unavailable() ShiftRequestOption {
	return func(f *ShiftRequestFixture) { f.CanWork = false }
}

func WithHours(start, end string) ShiftRequestOption {
	return func(f *ShiftRequestFixture) {
		f.Start = start
		f.End = end
	}
}

func WithDescription(description string) ShiftRequestOption {
	return func(f *ShiftRequestFixture) { f.Description = &description }
}

// Persistence returns the row stored for the fixture.
func (f ShiftRequestFixture) Persistence() (persistence.ShiftRequest, error) {
	start, err := optionalInstant(f.Start, f.Date)
	if err != nil {
		return persistence.ShiftRequest{}, err
	}
	end, err := optionalInstant(f.End, f.Date)
	if err != nil {
		return persistence.ShiftRequest{}, err
	}
	return persistence.ShiftRequest{
		ID:          f.ID,
		UserID:      f.UserID,
		Date:        f.Date,
		CanWork:     f.CanWork,
		Description: f.Description,
		StartTime:   start,
		EndTime:     end,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.CreatedAt,
	}, nil
}

// ------------------------ Confirmed shift fixtures ------------------------

// ConfirmedShiftFixture describes one assignment with "HH:MM" JST bounds.
type ConfirmedShiftFixture struct {
	ID        string
	UserID    string
	Date      time.Time
	Start     string
	End       string
	CreatedAt time.Time
}

// NewConfirmedShiftFixture returns a 09:00-17:30 assignment.
func NewConfirmedShiftFixture(userID string, date time.Time) ConfirmedShiftFixture {
	idx := atomic.AddUint64(&confirmedShiftCounter, 1)
	return ConfirmedShiftFixture{
		ID:        fmt.Sprintf("shift-%03d", idx),
		UserID:    userID,
		Date:      date,
		Start:     "09:00",
		End:       "17:30",
		CreatedAt: referenceTime,
	}
}

// Persistence returns the row stored for the fixture.
func (f ConfirmedShiftFixture) Persistence() (persistence.ConfirmedShift, error) {
	start, err := shifttime.ToInstant(f.Start, f.Date)
	if err != nil {
		return persistence.ConfirmedShift{}, err
	}
	end, err := shifttime.ToInstant(f.End, f.Date)
	if err != nil {
		return persistence.ConfirmedShift{}, err
	}
	return persistence.ConfirmedShift{
		ID:        f.ID,
		UserID:    f.UserID,
		Date:      f.Date,
		StartTime: start,
		EndTime:   end,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}, nil
}

func optionalInstant(value string, date time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	instant, err := shifttime.ToInstant(value, date)
	if err != nil {
		return nil, err
	}
	return &instant, nil
}
