package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eventmanager/admin-bff/internal/backend"
	"github.com/eventmanager/admin-bff/internal/form"
	"github.com/eventmanager/admin-bff/middleware"
)

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// fieldErrorBody mirrors the backend's validation envelope so the
// frontend deals with one error shape, whether the rejection happened
// here or upstream.
type fieldErrorBody struct {
	Timestamp string              `json:"timestamp"`
	Status    int                 `json:"status"`
	Errors    map[string][]string `json:"errors"`
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	var resp errorEnvelope
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.RequestID = middleware.GetRequestID(r.Context())
	sendJSON(w, status, resp)
}

func sendFieldErrors(w http.ResponseWriter, errs form.FieldErrors) {
	body := fieldErrorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    http.StatusUnprocessableEntity,
		Errors:    make(map[string][]string, len(errs)),
	}
	for _, e := range errs {
		body.Errors[e.Field] = append(body.Errors[e.Field], e.Message)
	}
	sendJSON(w, http.StatusUnprocessableEntity, body)
}

// rejectDraft maps a form submission failure to a response: field errors
// keep their per-field envelope, anything else is a generic 422.
func rejectDraft(w http.ResponseWriter, r *http.Request, err error) {
	var errs form.FieldErrors
	if errors.As(err, &errs) {
		sendFieldErrors(w, errs)
		return
	}
	var fe form.FieldError
	if errors.As(err, &fe) {
		sendFieldErrors(w, form.FieldErrors{fe})
		return
	}
	sendError(w, r, "validation_failed", err.Error(), http.StatusUnprocessableEntity)
}

// handleBackendError translates gateway failures. Authorization failures
// surface as 401 (the session is already gone); structured backend
// validation errors keep their envelope and status; anything else
// becomes a bad gateway with the normalized message.
func handleBackendError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	if errors.Is(err, backend.ErrNotAuthenticated) {
		sendError(w, r, "not_authenticated", "login required", http.StatusUnauthorized)
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		sendJSON(w, apiErr.StatusCode, fieldErrorBody{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Status:    apiErr.StatusCode,
			Errors:    apiErr.Fields,
		})
		return
	}

	var rawErr *backend.RawError
	if errors.As(err, &rawErr) {
		sendError(w, r, "backend_error", rawErr.Error(), http.StatusBadGateway)
		return
	}

	sendError(w, r, "internal_error", defaultMsg, http.StatusBadGateway)
}
