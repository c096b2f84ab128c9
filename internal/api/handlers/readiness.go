package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DependencyChecker probes one external dependency for readiness.
type DependencyChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HTTPChecker probes an HTTP endpoint, typically the backend's health
// route.
type HTTPChecker struct {
	name string
	url  string
}

func NewHTTPChecker(name, url string) *HTTPChecker {
	return &HTTPChecker{name: name, url: url}
}

func (c *HTTPChecker) Name() string { return c.name }

func (c *HTTPChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("unhealthy status %d", resp.StatusCode)
	}
	return nil
}

// RedisChecker pings the session store.
type RedisChecker struct {
	client *redis.Client
}

func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Name() string { return "redis" }

func (c *RedisChecker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// ReadinessHandler serves /healthz and /readyz.
type ReadinessHandler struct {
	checkers []DependencyChecker
}

func NewReadinessHandler(checkers ...DependencyChecker) *ReadinessHandler {
	return &ReadinessHandler{checkers: checkers}
}

// Healthz only says the process is alive.
func (h *ReadinessHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readyz probes every dependency in parallel and reports per-check
// status. Any failure flips the response to 503.
func (h *ReadinessHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	type checkResult struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	results := make([]checkResult, len(h.checkers))
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		allHealthy = true
	)

	for i, checker := range h.checkers {
		wg.Add(1)
		go func(idx int, c DependencyChecker) {
			defer wg.Done()
			if err := c.Check(ctx); err != nil {
				results[idx] = checkResult{Name: c.Name(), Status: "unhealthy", Error: err.Error()}
				mu.Lock()
				allHealthy = false
				mu.Unlock()
				return
			}
			results[idx] = checkResult{Name: c.Name(), Status: "healthy"}
		}(i, checker)
	}
	wg.Wait()

	resp := struct {
		Status string        `json:"status"`
		Checks []checkResult `json:"checks"`
	}{
		Status: "ready",
		Checks: results,
	}
	status := http.StatusOK
	if !allHealthy {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	sendJSON(w, status, resp)
}
