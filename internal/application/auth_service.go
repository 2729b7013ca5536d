package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Taka-cst/ShiftManager/internal/auth"
)

// CredentialStore exposes user credential lookup operations required by the auth service.
type CredentialStore interface {
	GetUserCredentialsByUsername(ctx context.Context, username string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// TokenSettings configures access token issuance.
type TokenSettings struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// AuthService coordinates password login and bearer token validation.
type AuthService struct {
	credentials    CredentialStore
	verifyPassword PasswordVerifier
	tokens         TokenSettings
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, verify PasswordVerifier, tokens TokenSettings, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(credentials, verify, tokens, now, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, verify PasswordVerifier, tokens TokenSettings, now func() time.Time, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	if now == nil {
		now = time.Now
	}
	if tokens.TTL <= 0 {
		tokens.TTL = 30 * time.Minute
	}
	return &AuthService{
		credentials:    credentials,
		verifyPassword: verify,
		tokens:         tokens,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and issues a signed access token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	username := strings.TrimSpace(params.Username)
	password := params.Password

	logger := s.loggerWith(ctx, "Authenticate", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", result.User.ID).InfoContext(ctx, "authentication succeeded")
	}()

	if username == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(creds.PasswordHash, password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	token, expires, signErr := auth.NewAccessToken(s.tokens.Secret, s.tokens.Issuer, s.now(), s.tokens.TTL, creds.User.ID, auth.Claims{
		Username: creds.User.Username,
	})
	if signErr != nil {
		err = fmt.Errorf("issue access token: %w", signErr)
		return
	}

	result = AuthenticateResult{User: creds.User, AccessToken: token, ExpiresAt: expires}
	return
}

// ValidateToken verifies a bearer token and resolves the current account behind it.
// Accounts deleted after the token was issued no longer authenticate.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateToken", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "token validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("principal_id", principal.UserID).DebugContext(ctx, "token validated")
	}()

	if trimmed == "" {
		err = ErrUnauthenticated
		return
	}

	claims, parseErr := auth.ParseToken(s.tokens.Secret, trimmed, s.now())
	if parseErr != nil {
		err = fmt.Errorf("%w: %v", ErrUnauthenticated, parseErr)
		return
	}

	user, repoErr := s.credentials.GetUser(ctx, claims.Subject)
	if repoErr != nil {
		err = mapRepoError(repoErr)
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthenticated
		}
		return
	}

	principal = Principal{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	}
	return
}
