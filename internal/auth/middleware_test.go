package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho(t *testing.T, wantUserID uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantUserID, userID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingCredentials(t *testing.T) {
	m := NewMiddleware(newTestPasetoService(t))

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	m := NewMiddleware(newTestPasetoService(t))

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	svc := newTestPasetoService(t)
	m := NewMiddleware(svc)

	token, err := svc.CreateToken(uuid.New(), -time.Hour)
	require.NoError(t, err)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	svc := newTestPasetoService(t)
	m := NewMiddleware(svc)
	userID := uuid.New()

	token, err := svc.CreateToken(userID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	rec := httptest.NewRecorder()
	m.RequireAuth(protectedEcho(t, userID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	svc := newTestPasetoService(t)
	m := NewMiddleware(svc)
	userID := uuid.New()

	token, err := svc.CreateToken(userID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	m.RequireAuth(protectedEcho(t, userID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionCookie_Attributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", true, 24*time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), c.MaxAge)
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}
