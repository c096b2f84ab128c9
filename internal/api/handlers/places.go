package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventmanager/admin-bff/internal/datetime"
	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/internal/form"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/go-chi/chi/v5"
)

type PlacesClient interface {
	List(ctx context.Context, token string) ([]domain.Place, error)
	Get(ctx context.Context, token string, id int64) (*domain.PlaceDetails, error)
	Available(ctx context.Context, token, startsAt, finishesAt string) ([]domain.Place, error)
	Create(ctx context.Context, token string, payload domain.PlaceUpsert) error
	Update(ctx context.Context, token string, id int64, payload domain.PlaceUpsert) error
	Delete(ctx context.Context, token string, id int64) error
}

type PlacesHandler struct {
	places PlacesClient
	cep    form.AddressLookup
}

func NewPlacesHandler(places PlacesClient, cep form.AddressLookup) *PlacesHandler {
	return &PlacesHandler{places: places, cep: cep}
}

func (h *PlacesHandler) List(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetBearerToken(r.Context())
	places, err := h.places.List(r.Context(), token)
	if err != nil {
		handleBackendError(w, r, err, "failed to fetch places")
		return
	}
	sendJSON(w, http.StatusOK, places)
}

func (h *PlacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid place id", http.StatusBadRequest)
		return
	}

	token := middleware.GetBearerToken(r.Context())
	p, err := h.places.Get(r.Context(), token, id)
	if err != nil {
		handleBackendError(w, r, err, "failed to fetch place")
		return
	}
	sendJSON(w, http.StatusOK, p)
}

// Available answers the event form's dependent dropdown. Dates already
// in wire format pass through the conversion untouched.
func (h *PlacesHandler) Available(w http.ResponseWriter, r *http.Request) {
	startsAt := r.URL.Query().Get("startsAt")
	finishesAt := r.URL.Query().Get("finishesAt")
	if startsAt == "" || finishesAt == "" {
		sendError(w, r, "validation_failed", "startsAt and finishesAt are required", http.StatusBadRequest)
		return
	}

	token := middleware.GetBearerToken(r.Context())
	places, err := h.places.Available(r.Context(), token, datetime.ToBackend(startsAt), datetime.ToBackend(finishesAt))
	if err != nil {
		handleBackendError(w, r, err, "failed to load available places")
		return
	}
	sendJSON(w, http.StatusOK, places)
}

func (h *PlacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.resolveDraft(w, r)
	if !ok {
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.places.Create(r.Context(), token, payload); err != nil {
		handleBackendError(w, r, err, "failed to create place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlacesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid place id", http.StatusBadRequest)
		return
	}

	payload, ok := h.resolveDraft(w, r)
	if !ok {
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.places.Update(r.Context(), token, id, payload); err != nil {
		handleBackendError(w, r, err, "failed to update place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, r, "validation_failed", "invalid place id", http.StatusBadRequest)
		return
	}

	token := middleware.GetBearerToken(r.Context())
	if err := h.places.Delete(r.Context(), token, id); err != nil {
		handleBackendError(w, r, err, "failed to delete place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveDraft re-runs the place form workflow on the submitted draft:
// a well-formed CEP must resolve through the address lookup before
// anything is forwarded to the backend.
func (h *PlacesHandler) resolveDraft(w http.ResponseWriter, r *http.Request) (domain.PlaceUpsert, bool) {
	var draft domain.PlaceUpsert
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		sendError(w, r, "validation_failed", "invalid request body", http.StatusBadRequest)
		return domain.PlaceUpsert{}, false
	}

	f := form.NewPlaceForm(h.cep)
	f.Hydrate(draft)

	// Lookup failures land in the form state; the submit gate below turns
	// them into field errors, and a malformed CEP falls through to the
	// schema rule the same way.
	_ = f.ResolveNow(r.Context())

	payload, err := f.Submit()
	if err != nil {
		rejectDraft(w, r, err)
		return domain.PlaceUpsert{}, false
	}
	return payload, true
}
