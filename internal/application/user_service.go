package application

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user UserCredentials) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	HasAdmin(ctx context.Context) (bool, error)
	// DeleteUser removes the account together with its shift requests and confirmed shifts.
	DeleteUser(ctx context.Context, id string) error
}

// UserService orchestrates validation, authorization, and persistence for users.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	adminCode    string
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service. Registrations that
// present adminCode become administrators.
func NewUserService(users UserRepository, hash PasswordHasher, adminCode string, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hash, adminCode, idGenerator, now, nil)
}

// NewUserServiceWithLogger wires dependencies with a specified logger.
func NewUserServiceWithLogger(users UserRepository, hash PasswordHasher, adminCode string, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: hash,
		adminCode:    adminCode,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register creates a self-service account. A non-empty admin code must match
// the configured code and grants administrator rights.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (result User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	normalized := RegisterInput{
		Username:    strings.TrimSpace(input.Username),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Password:    input.Password,
		AdminCode:   strings.TrimSpace(input.AdminCode),
	}

	logger := s.loggerWith(ctx, "Register", "username", normalized.Username)
	defer func() {
		logOutcome(ctx, logger, err, "user registration failed", "user registered",
			"user_id", result.ID, "is_admin", result.IsAdmin)
	}()

	vErr := validateStruct(normalized)
	isAdmin := false
	if normalized.AdminCode != "" {
		if s.adminCode == "" || subtle.ConstantTimeCompare([]byte(normalized.AdminCode), []byte(s.adminCode)) != 1 {
			vErr.add("admin_code", "admin code is invalid")
		} else {
			isAdmin = true
		}
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	result, err = s.create(ctx, normalized.Username, normalized.DisplayName, normalized.Password, isAdmin)
	return
}

// BootstrapAdmin creates the first administrator. It fails with ErrAdminExists
// once any administrator is present.
func (s *UserService) BootstrapAdmin(ctx context.Context, input BootstrapAdminInput) (result User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	normalized := BootstrapAdminInput{
		Username:    strings.TrimSpace(input.Username),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Password:    input.Password,
	}

	logger := s.loggerWith(ctx, "BootstrapAdmin", "username", normalized.Username)
	defer func() {
		logOutcome(ctx, logger, err, "administrator bootstrap failed", "administrator created", "user_id", result.ID)
	}()

	if vErr := validateStruct(normalized); vErr.HasErrors() {
		err = vErr
		return
	}

	exists, repoErr := s.users.HasAdmin(ctx)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if exists {
		err = ErrAdminExists
		return
	}

	result, err = s.create(ctx, normalized.Username, normalized.DisplayName, normalized.Password, true)
	return
}

func (s *UserService) create(ctx context.Context, username, displayName, password string, isAdmin bool) (User, error) {
	hash, err := s.hashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	creds := UserCredentials{
		User: User{
			ID:          s.idGenerator(),
			Username:    username,
			DisplayName: displayName,
			IsAdmin:     isAdmin,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	}

	persisted, err := s.users.CreateUser(ctx, creds)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return persisted, nil
}

// Me returns the account behind the principal.
func (s *UserService) Me(ctx context.Context, principal Principal) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthenticated
	}

	user, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return user, nil
}

// ListUsers returns all users ordered by username for administrators.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if !principal.IsAdmin {
		return nil, ErrForbidden
	}
	if s.users == nil {
		return nil, nil
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	out := make([]User, len(users))
	copy(out, users)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Username == out[j].Username {
			return out[i].ID < out[j].ID
		}
		return out[i].Username < out[j].Username
	})

	return out, nil
}

// DeleteUser removes a non-administrator account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) (result DeleteUserResult, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	userID = strings.TrimSpace(userID)
	logger := s.loggerWith(ctx, "DeleteUser", "principal_id", principal.UserID, "user_id", userID)
	defer func() {
		logOutcome(ctx, logger, err, "user delete failed", "user deleted")
	}()

	if !principal.IsAdmin {
		err = ErrForbidden
		return
	}

	target, repoErr := s.users.GetUser(ctx, userID)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}
	if target.IsAdmin {
		err = ErrForbidden
		return
	}

	if repoErr = s.users.DeleteUser(ctx, target.ID); repoErr != nil {
		err = mapRepoError(repoErr)
		return
	}

	result = DeleteUserResult{UserID: target.ID, DisplayName: target.DisplayName}
	return
}
