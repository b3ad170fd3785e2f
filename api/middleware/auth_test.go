package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/tiendalink/backend/pkg/auth"
	"github.com/tiendalink/backend/pkg/config"
	"github.com/tiendalink/backend/pkg/enums"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret-test-secret-test-secret",
	Issuer:            "tiendalink-test",
	ExpirationMinutes: 15,
}

type stubSessionChecker struct {
	active bool
	err    error
}

func (s *stubSessionChecker) HasSession(_ context.Context, _ string) (bool, error) {
	return s.active, s.err
}

func mintTestToken(t *testing.T, storeID *uuid.UUID) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgauth.MintAccessToken(testJWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  userID,
		StoreID: storeID,
		Role:    enums.UserRoleSeller,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testJWT, &stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(testJWT, &stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	storeID := uuid.New()
	token, userID := mintTestToken(t, &storeID)

	var seenUser, seenStore, seenRole, seenAccess string
	handler := Auth(testJWT, &stubSessionChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserIDFromContext(r.Context())
		seenStore = StoreIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		seenAccess = AccessIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seenUser != userID.String() {
		t.Fatalf("expected user id in context, got %q", seenUser)
	}
	if seenStore != storeID.String() {
		t.Fatalf("expected store id in context, got %q", seenStore)
	}
	if seenRole != string(enums.UserRoleSeller) {
		t.Fatalf("expected seller role, got %q", seenRole)
	}
	if seenAccess == "" {
		t.Fatal("expected access id in context")
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t, nil)

	handler := Auth(testJWT, &stubSessionChecker{active: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestStoreContextRequiresStore(t *testing.T) {
	handler := StoreContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// no store in context
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	// store present
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithStoreID(req.Context(), uuid.NewString()))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestCartTokenLiftsHeader(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartTokenHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc-123" {
		t.Fatalf("expected cart token in context, got %q", seen)
	}
}

func TestCartTokenMissingHeaderIsAllowed(t *testing.T) {
	var seen string
	handler := CartToken(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != "" {
		t.Fatalf("expected empty token, got %q", seen)
	}
}
