package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventmanager/admin-bff/internal/session"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler() (*AuthHandler, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour)
	return &AuthHandler{
		Sessions:   store,
		LoginURL:   "http://backend/oauth2/authorization/google",
		CookieName: "test_session",
		SessionTTL: time.Hour,
	}, store
}

func TestLogin_RedirectsToProvider(t *testing.T) {
	h, _ := newAuthHandler()

	req := httptest.NewRequest("GET", "/login", nil)
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://backend/oauth2/authorization/google", w.Header().Get("Location"))
}

func TestCallback_StoresTokenAndSetsCookie(t *testing.T) {
	h, store := newAuthHandler()

	req := httptest.NewRequest("GET", "/auth/callback?token=jwt-abc", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "test_session", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	token, err := store.Token(context.Background(), c.Value)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
}

func TestCallback_ProviderError(t *testing.T) {
	h, _ := newAuthHandler()

	req := httptest.NewRequest("GET", "/auth/callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access_denied")
}

func TestCallback_MissingToken(t *testing.T) {
	h, _ := newAuthHandler()

	req := httptest.NewRequest("GET", "/auth/callback", nil)
	w := httptest.NewRecorder()
	h.Callback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout_ClearsSessionAndCookie(t *testing.T) {
	h, store := newAuthHandler()
	require.NoError(t, store.SetToken(context.Background(), "sid-9", "jwt-abc"))

	req := httptest.NewRequest("POST", "/logout", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.SessionIDKey, "sid-9"))
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	token, err := store.Token(context.Background(), "sid-9")
	require.NoError(t, err)
	assert.Empty(t, token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_BrowserNavigationRedirects(t *testing.T) {
	h, _ := newAuthHandler()

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
