package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/eventmanager/admin-bff/internal/session"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/google/uuid"
)

// AuthHandler owns the OAuth boundary: send the browser to the provider,
// take the token (or error) off the callback query string, hand it to the
// session store and navigate away. Provider internals stay opaque.
type AuthHandler struct {
	Sessions   session.Store
	LoginURL   string
	CookieName string
	SessionTTL time.Duration
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.LoginURL, http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errMsg := q.Get("error"); errMsg != "" {
		sendError(w, r, "oauth_error", errMsg, http.StatusUnauthorized)
		return
	}

	token := q.Get("token")
	if token == "" {
		sendError(w, r, "token_missing", "token not found in callback URL", http.StatusBadRequest)
		return
	}

	sid := uuid.NewString()
	if err := h.Sessions.SetToken(r.Context(), sid, token); err != nil {
		sendError(w, r, "internal_error", "failed to store session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := middleware.GetSessionID(r.Context()); sid != "" {
		_ = h.Sessions.Clear(r.Context(), sid)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me only runs behind the auth gate, so reaching it means the identity
// check already passed.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}
