package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/internal/viacep"
	"github.com/go-chi/chi/v5"
)

// CEPResolver is the outbound postal code lookup.
type CEPResolver interface {
	Lookup(ctx context.Context, cep string) (*domain.Address, error)
}

// ViaCEPHandler proxies the public lookup so the browser never talks to
// the provider directly.
type ViaCEPHandler struct {
	resolver CEPResolver
}

func NewViaCEPHandler(resolver CEPResolver) *ViaCEPHandler {
	return &ViaCEPHandler{resolver: resolver}
}

func (h *ViaCEPHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")
	if !viacep.Valid(cep) {
		sendError(w, r, "invalid_cep", "Invalid CEP", http.StatusBadRequest)
		return
	}

	addr, err := h.resolver.Lookup(r.Context(), cep)
	switch {
	case errors.Is(err, viacep.ErrNotFound):
		sendError(w, r, "cep_not_found", "CEP not found", http.StatusNotFound)
		return
	case err != nil:
		sendError(w, r, "cep_unavailable", "ViaCEP request failed", http.StatusBadGateway)
		return
	}
	sendJSON(w, http.StatusOK, addr)
}
