package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eventmanager/admin-bff/internal/domain"
)

// PlacesService covers place CRUD plus the availability query the event
// form depends on.
type PlacesService struct {
	c *Client
}

func NewPlacesService(c *Client) *PlacesService {
	return &PlacesService{c: c}
}

func (s *PlacesService) List(ctx context.Context, token string) ([]domain.Place, error) {
	var places []domain.Place
	if err := s.c.Do(ctx, http.MethodGet, "/api/places", token, nil, &places); err != nil {
		return nil, err
	}
	if places == nil {
		places = make([]domain.Place, 0)
	}
	return places, nil
}

func (s *PlacesService) Get(ctx context.Context, token string, id int64) (*domain.PlaceDetails, error) {
	var p domain.PlaceDetails
	if err := s.c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/places/%d", id), token, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Available returns the places free for the interval. Both values must
// already be in backend wire format.
func (s *PlacesService) Available(ctx context.Context, token, startsAt, finishesAt string) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("startsAt", startsAt)
	q.Set("finishesAt", finishesAt)

	var places []domain.Place
	if err := s.c.Do(ctx, http.MethodGet, "/api/places/available?"+q.Encode(), token, nil, &places); err != nil {
		return nil, err
	}
	if places == nil {
		places = make([]domain.Place, 0)
	}
	return places, nil
}

func (s *PlacesService) Create(ctx context.Context, token string, payload domain.PlaceUpsert) error {
	return s.c.Do(ctx, http.MethodPost, "/api/places/create", token, payload, nil)
}

func (s *PlacesService) Update(ctx context.Context, token string, id int64, payload domain.PlaceUpsert) error {
	return s.c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/places/update/%d", id), token, payload, nil)
}

func (s *PlacesService) Delete(ctx context.Context, token string, id int64) error {
	return s.c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/places/delete/%d", id), token, nil, nil)
}
