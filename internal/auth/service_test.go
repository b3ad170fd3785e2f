package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/tiendalink/backend/pkg/auth"
	"github.com/tiendalink/backend/pkg/auth/session"
	"github.com/tiendalink/backend/pkg/config"
	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/security"
)

type stubUserRepo struct {
	byEmail     *models.User
	byID        *models.User
	created     *models.User
	createErr   error
	updatedHash string
}

func (s *stubUserRepo) Create(_ context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	s.created = user
	return nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, _ string) (*models.User, error) {
	if s.byEmail == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byEmail, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubUserRepo) UpdatePasswordHash(_ context.Context, _ uuid.UUID, hash string) error {
	s.updatedHash = hash
	return nil
}

type stubStoreFinder struct {
	store *models.Store
}

func (s *stubStoreFinder) FindByOwner(_ context.Context, _ uuid.UUID) (*models.Store, error) {
	if s.store == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := session.NewAccessID()
	return newID, "refresh-" + newID, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubLimiter struct {
	allowed bool
	scopes  []string
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, _ int64, _ time.Duration) (bool, int64, error) {
	s.scopes = append(s.scopes, scope)
	return s.allowed, 1, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret-test-secret-test-secret",
			Issuer:            "tiendalink-test",
			ExpirationMinutes: 15,
		},
		AuthRate: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginEmailLimit: 5,
			LoginIPLimit:    20,
		},
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func newTestService(t *testing.T, users *stubUserRepo, sessions *stubSessions, limiter *stubLimiter, stores *stubStoreFinder) *Service {
	t.Helper()
	var sf storeFinder
	if stores != nil {
		sf = stores
	}
	var rl rateLimiter
	if limiter != nil {
		rl = limiter
	}
	svc, err := NewService(users, sf, sessions, rl, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterCreatesSellerAndSignsIn(t *testing.T) {
	users := &stubUserRepo{}
	sessions := &stubSessions{}
	svc := newTestService(t, users, sessions, nil, nil)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Ana@Example.com ",
		Password: "super-secreta",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if users.created == nil || users.created.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %+v", users.created)
	}
	if users.created.Role != enums.UserRoleSeller {
		t.Fatalf("expected seller role, got %s", users.created.Role)
	}
	if strings.Contains(users.created.PasswordHash, "super-secreta") {
		t.Fatal("password stored in plain text")
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected a full token pair, got %+v", result.Tokens)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessions{}, nil, nil)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "super-secreta"}},
		{"invalid email", RegisterInput{Email: "not-an-email", Password: "super-secreta"}},
		{"short password", RegisterInput{Email: "ana@example.com", Password: "corta"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &stubUserRepo{byEmail: &models.User{ID: uuid.New(), Email: "ana@example.com"}}
	svc := newTestService(t, users, &stubSessions{}, nil, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ana@example.com", Password: "super-secreta"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSuccessEmbedsStoreID(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: mustHash(t, "super-secreta"),
		Role:         enums.UserRoleSeller,
	}
	store := &models.Store{ID: uuid.New(), OwnerID: user.ID, Slug: "tienda-ana"}
	limiter := &stubLimiter{allowed: true}
	svc := newTestService(t, &stubUserRepo{byEmail: user}, &stubSessions{}, limiter, &stubStoreFinder{store: store})

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "ana@example.com",
		Password: "super-secreta",
		IP:       "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testConfig().JWT, result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id in claims")
	}
	if claims.StoreID == nil || *claims.StoreID != store.ID {
		t.Fatalf("expected store id in claims, got %v", claims.StoreID)
	}
	if len(limiter.scopes) != 2 {
		t.Fatalf("expected email and ip rate scopes, got %v", limiter.scopes)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: mustHash(t, "super-secreta")}
	svc := newTestService(t, &stubUserRepo{byEmail: user}, &stubSessions{}, &stubLimiter{allowed: true}, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "incorrecta!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSessions{}, &stubLimiter{allowed: true}, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "nadie@example.com", Password: "cualquiera"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: mustHash(t, "super-secreta")}
	svc := newTestService(t, &stubUserRepo{byEmail: user}, &stubSessions{}, &stubLimiter{allowed: false}, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "super-secreta"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Role: enums.UserRoleSeller}
	users := &stubUserRepo{byID: user}
	sessions := &stubSessions{}
	svc := newTestService(t, users, sessions, nil, nil)

	// an expired but otherwise valid token still identifies the session
	accessID := session.NewAccessID()
	expired, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	result, err := svc.Refresh(context.Background(), expired, "refresh-"+accessID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected a fresh token pair, got %+v", result.Tokens)
	}

	claims, err := pkgauth.ParseAccessToken(testConfig().JWT, result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID == accessID {
		t.Fatal("rotation should issue a new access id")
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Role: enums.UserRoleSeller}
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, &stubUserRepo{byID: user}, sessions, nil, nil)

	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), token, "stolen")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newTestService(t, &stubUserRepo{}, sessions, nil, nil)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("expected revoked session, got %v", sessions.revoked)
	}
}

func TestChangePassword(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: mustHash(t, "super-secreta")}
	users := &stubUserRepo{byID: user}
	svc := newTestService(t, users, &stubSessions{}, nil, nil)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, user.ID, "super-secreta", "todavia-mas-secreta"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	ok, err := security.VerifyPassword("todavia-mas-secreta", users.updatedHash)
	if err != nil || !ok {
		t.Fatalf("new password should verify against the stored hash: %v", err)
	}

	err = svc.ChangePassword(ctx, user.ID, "incorrecta!", "otra-clave-larga")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
