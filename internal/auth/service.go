package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/auth"
	"github.com/tiendalink/backend/pkg/auth/session"
	"github.com/tiendalink/backend/pkg/config"
	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/security"
)

const minPasswordLen = 8

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type storeFinder interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service handles merchant registration, login, token refresh, and
// password changes.
type Service struct {
	users    userRepository
	stores   storeFinder
	sessions sessionManager
	limiter  rateLimiter
	jwt      config.JWTConfig
	password config.PasswordConfig
	rate     config.AuthRateLimitConfig
	now      func() time.Time
}

func NewService(
	users userRepository,
	stores storeFinder,
	sessions sessionManager,
	limiter rateLimiter,
	cfg *config.Config,
) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	return &Service{
		users:    users,
		stores:   stores,
		sessions: sessions,
		limiter:  limiter,
		jwt:      cfg.JWT,
		password: cfg.Password,
		rate:     cfg.AuthRate,
		now:      time.Now,
	}, nil
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Email    string
	Password string
}

// LoginInput is the login form plus the caller's IP for rate limiting.
type LoginInput struct {
	Email    string
	Password string
	IP       string
}

// Register creates a seller account and signs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking email")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleSeller,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating account")
	}

	return s.startSession(ctx, user)
}

// Login verifies credentials under per-email and per-IP rate limits.
// Unknown email and wrong password are indistinguishable to callers.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	if err := s.allowLogin(ctx, email, input.IP); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.startSession(ctx, user)
}

// Refresh rotates the refresh token and mints a new access token. The
// presented access token may be expired but must be otherwise valid.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	token, err := s.mintToken(ctx, user, newAccessID)
	if err != nil {
		return nil, err
	}

	result := &Session{User: userFromModel(user)}
	result.Tokens = TokenPair{AccessToken: token, RefreshToken: newRefresh}
	return result, nil
}

// Logout revokes the session tied to the access token id.
func (s *Service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// ChangePassword swaps the password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < minPasswordLen {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating password")
	}
	return nil
}

// startSession mints an access token with a fresh jti and binds a
// refresh token to it.
func (s *Service) startSession(ctx context.Context, user *models.User) (*Session, error) {
	accessID := session.NewAccessID()

	token, err := s.mintToken(ctx, user, accessID)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	result := &Session{User: userFromModel(user)}
	result.Tokens = TokenPair{AccessToken: token, RefreshToken: refresh}
	return result, nil
}

func (s *Service) mintToken(ctx context.Context, user *models.User, accessID string) (string, error) {
	payload := auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	}
	if s.stores != nil {
		store, err := s.stores.FindByOwner(ctx, user.ID)
		switch {
		case err == nil:
			payload.StoreID = &store.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// account has no store yet
		default:
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading store")
		}
	}

	token, err := auth.MintAccessToken(s.jwt, s.now(), payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	return token, nil
}

func (s *Service) allowLogin(ctx context.Context, email, ip string) error {
	if s.limiter == nil {
		return nil
	}

	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:email:"+email,
		int64(s.rate.LoginEmailLimit), s.rate.LoginWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting login")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
	}

	if ip = strings.TrimSpace(ip); ip != "" {
		allowed, _, err = s.limiter.FixedWindowAllow(ctx, "login:ip:"+ip,
			int64(s.rate.LoginIPLimit), s.rate.LoginWindow)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting login")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts, try again later")
		}
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "email is not valid")
	}
	return email, nil
}
