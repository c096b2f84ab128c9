package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/internal/form"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/go-chi/chi/v5"
)

type EventsClient interface {
	List(ctx context.Context, token string) ([]domain.Event, error)
	Get(ctx context.Context, token string, id int64, enrichPlace bool) (*domain.EventDetails, error)
	Create(ctx context.Context, token string, payload domain.EventUpsert) error
	Update(ctx context.Context, token string, id int64, payload domain.EventUpsert) error
	Delete(ctx context.Context, token string, id int64) error
}

type AvailabilityClient interface {
	Available(ctx context.Context, token, startsAt, finishesAt string) ([]domain.Place, error)
}

type EventsHandler struct {
	events EventsClient
	places AvailabilityClient
}

func NewEventsHandler(events EventsClient, places AvailabilityClient) *EventsHandler {
	return &EventsHandler{events: events, places: places}
}

// tokenAvailability binds the caller's bearer token so the form
// controller stays ignorant of authentication.
type tokenAvailability struct {
	places AvailabilityClient
	token  string
}

func (a tokenAvailability) Available(ctx context.Context, startsAt, finishesAt string) ([]domain.Place, error) {
	return a.places.Available(ctx, a.token, startsAt, finishesAt)
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetBearerToken(r.Context())
	events, err := h.events.List(r.Context(), token)
	if err != nil {
		handleBackendError(w, r, err, "failed to fetch events")
		return
	}
	sendJSON(w, http.StatusOK, events)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid event id", http.StatusBadRequest)
		return
	}
	enrichPlace := r.URL.Query().Get("enrichPlace") == "true"

	token := middleware.GetBearerToken(r.Context())
	ev, err := h.events.Get(r.Context(), token, id, enrichPlace)
	if err != nil {
		handleBackendError(w, r, err, "failed to fetch event")
		return
	}
	sendJSON(w, http.StatusOK, ev)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.resolveDraft(w, r)
	if !ok {
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.events.Create(r.Context(), token, payload); err != nil {
		handleBackendError(w, r, err, "failed to create event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid event id", http.StatusBadRequest)
		return
	}

	payload, ok := h.resolveDraft(w, r)
	if !ok {
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.events.Update(r.Context(), token, id, payload); err != nil {
		handleBackendError(w, r, err, "failed to update event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid event id", http.StatusBadRequest)
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.events.Delete(r.Context(), token, id); err != nil {
		handleBackendError(w, r, err, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveDraft re-runs the event form workflow on the submitted draft:
// the availability lookup resolves synchronously and the selected place
// must belong to the resulting set, exactly as in the browser form.
func (h *EventsHandler) resolveDraft(w http.ResponseWriter, r *http.Request) (domain.EventUpsert, bool) {
	var draft domain.EventUpsert
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		sendError(w, r, "validation_failed", "invalid request body", http.StatusBadRequest)
		return domain.EventUpsert{}, false
	}

	token := middleware.GetBearerToken(r.Context())
	f := form.NewEventForm(tokenAvailability{places: h.places, token: token})
	f.Hydrate(draft)

	if draft.StartsAt != "" && draft.FinishesAt != "" {
		if err := f.ResolveNow(r.Context()); err != nil {
			handleBackendError(w, r, err, "failed to load available places")
			return domain.EventUpsert{}, false
		}
		if draft.PlaceCode != "" && f.Snapshot().PlaceCode == "" {
			sendFieldErrors(w, form.FieldErrors{{
				Field:   "placeCode",
				Message: "Place is not available for this interval",
			}})
			return domain.EventUpsert{}, false
		}
	}

	payload, err := f.Submit()
	if err != nil {
		rejectDraft(w, r, err)
		return domain.EventUpsert{}, false
	}
	return payload, true
}
