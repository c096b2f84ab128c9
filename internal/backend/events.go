package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventmanager/admin-bff/internal/domain"
)

// EventsService covers the event CRUD endpoints.
type EventsService struct {
	c *Client
}

func NewEventsService(c *Client) *EventsService {
	return &EventsService{c: c}
}

func (s *EventsService) List(ctx context.Context, token string) ([]domain.Event, error) {
	var events []domain.Event
	if err := s.c.Do(ctx, http.MethodGet, "/api/events", token, nil, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = make([]domain.Event, 0)
	}
	return events, nil
}

func (s *EventsService) Get(ctx context.Context, token string, id int64, enrichPlace bool) (*domain.EventDetails, error) {
	var ev domain.EventDetails
	path := fmt.Sprintf("/api/events/%d?enrichPlace=%t", id, enrichPlace)
	if err := s.c.Do(ctx, http.MethodGet, path, token, nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *EventsService) Create(ctx context.Context, token string, payload domain.EventUpsert) error {
	return s.c.Do(ctx, http.MethodPost, "/api/events/create", token, payload, nil)
}

func (s *EventsService) Update(ctx context.Context, token string, id int64, payload domain.EventUpsert) error {
	return s.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/events/update/%d", id), token, payload, nil)
}

func (s *EventsService) Delete(ctx context.Context, token string, id int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/events/delete/%d", id), token, nil, nil)
}
