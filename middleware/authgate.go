package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eventmanager/admin-bff/internal/session"
)

const (
	SessionIDKey   contextKey = "session_id"
	BearerTokenKey contextKey = "bearer_token"
)

type contextKey string

// IdentityChecker is the lightweight "who am I" call against the backend.
type IdentityChecker interface {
	Me(ctx context.Context, token string) error
}

// AuthGate wraps every protected route. Each request starts in a checking
// state: no session or an unusable token short-circuits to the login
// redirect, otherwise the held token is verified against the backend
// before the handler may render anything. An identity-check failure is
// treated exactly like an absent session.
type AuthGate struct {
	Sessions   session.Store
	Identity   IdentityChecker
	CookieName string
	LoginPath  string
}

func (g *AuthGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(g.CookieName)
		if err != nil || cookie.Value == "" {
			g.redirect(w, r)
			return
		}
		sid := cookie.Value

		token, err := g.Sessions.Token(ctx, sid)
		if err != nil || token == "" {
			g.redirect(w, r)
			return
		}

		if !session.Usable(token) {
			_ = g.Sessions.Clear(ctx, sid)
			g.redirect(w, r)
			return
		}

		ctx = context.WithValue(ctx, SessionIDKey, sid)
		ctx = context.WithValue(ctx, BearerTokenKey, token)

		if err := g.Identity.Me(ctx, token); err != nil {
			_ = g.Sessions.Clear(ctx, sid)
			g.redirect(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// redirect sends browser navigations to the login page; API calls get a
// 401 the frontend turns into the same redirect.
func (g *AuthGate) redirect(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, g.LoginPath, http.StatusFound)
		return
	}
	reqID := GetRequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":"not_authenticated","message":"login required","request_id":"` + reqID + `"}}`))
}

func GetSessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(SessionIDKey).(string); ok {
		return sid
	}
	return ""
}

func GetBearerToken(ctx context.Context) string {
	if token, ok := ctx.Value(BearerTokenKey).(string); ok {
		return token
	}
	return ""
}
