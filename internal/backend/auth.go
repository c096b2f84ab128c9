package backend

import (
	"context"
	"net/http"
)

// AuthService issues the lightweight identity check the auth gate relies
// on. The payload is opaque; only success or failure matters.
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

func (s *AuthService) Me(ctx context.Context, token string) error {
	return s.c.Do(ctx, http.MethodGet, "/api/auth/me", token, nil, nil)
}
