package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AttachesHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	ctx := middleware.SetRequestIDForTest(context.Background(), "req-1")

	err := c.Do(ctx, http.MethodGet, "/api/auth/me", "tok-123", nil, nil)
	require.NoError(t, err)
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/events", "", nil, nil))
}

func TestClient_StructuredErrorDecode(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"timestamp":"2026-02-05T10:30:00Z","status":422,"errors":{"name":["This field is mandatory"],"code":["Only numbers and letters is permitted"]}}`))
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	err := c.Do(context.Background(), http.MethodPost, "/api/places/create", "tok", map[string]string{}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	// First field message in stable order.
	assert.Equal(t, "code: Only numbers and letters is permitted", apiErr.Error())
}

func TestClient_RawErrorFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	err := c.Do(context.Background(), http.MethodGet, "/api/events", "tok", nil, nil)

	var rawErr *RawError
	require.ErrorAs(t, err, &rawErr)
	assert.Equal(t, "upstream exploded", rawErr.Error())
}

func TestClient_RawErrorEmptyBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	err := c.Do(context.Background(), http.MethodGet, "/api/events", "tok", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 500", err.Error())
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	cleared := false
	c := New(upstream.URL,
		WithHTTPClient(upstream.Client()),
		WithUnauthorizedHook(func(ctx context.Context) { cleared = true }),
	)

	err := c.Do(context.Background(), http.MethodGet, "/api/events", "stale", nil, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.True(t, cleared, "401 must tear the session down before the error surfaces")
}

func TestClient_NonJSONSuccessBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text ok"))
	}))
	defer upstream.Close()

	c := New(upstream.URL, WithHTTPClient(upstream.Client()))
	var out string
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/api/status", "", nil, &out))
	assert.Equal(t, "plain text ok", out)
}

func TestPlacesService_Available(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/places/available", r.URL.Path)
		assert.Equal(t, "2026-02-05T10:30:00", r.URL.Query().Get("startsAt"))
		assert.Equal(t, "2026-02-05T12:00:00", r.URL.Query().Get("finishesAt"))
		w.Write([]byte(`[{"id":1,"name":"Hall A","code":"HALLA","capacity":100,"cep":"01001000"}]`))
	}))
	defer upstream.Close()

	svc := NewPlacesService(New(upstream.URL, WithHTTPClient(upstream.Client())))
	places, err := svc.Available(context.Background(), "tok", "2026-02-05T10:30:00", "2026-02-05T12:00:00")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, domain.PlaceOption{Label: "Hall A", Value: "HALLA"}, domain.Option(places[0]))
}

func TestEventsService_ListEmpty(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer upstream.Close()

	svc := NewEventsService(New(upstream.URL, WithHTTPClient(upstream.Client())))
	events, err := svc.List(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
