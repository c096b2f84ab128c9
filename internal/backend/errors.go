package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotAuthenticated is returned for any 401 from the backend. The client
// has already cleared session state by the time callers see it.
var ErrNotAuthenticated = errors.New("not authenticated")

// apiErrorBody is the backend's structured error envelope.
type apiErrorBody struct {
	Timestamp string              `json:"timestamp"`
	Status    int                 `json:"status"`
	Errors    map[string][]string `json:"errors"`
}

// APIError is a non-2xx response whose body carried the structured
// {timestamp, status, errors} envelope.
type APIError struct {
	StatusCode int
	Fields     map[string][]string
}

// Error surfaces the first field-level message, in stable field order.
func (e *APIError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if msgs := e.Fields[f]; len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", f, msgs[0])
		}
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// RawError is a non-2xx response whose body did not decode as the
// structured envelope. Message is the raw body, or "HTTP <status>" when
// the body was empty.
type RawError struct {
	StatusCode int
	Body       string
}

func (e *RawError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// decodeError implements the two-stage decode: structured envelope first,
// raw text second.
func decodeError(status int, body []byte) error {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return &APIError{StatusCode: status, Fields: parsed.Errors}
	}
	return &RawError{StatusCode: status, Body: string(body)}
}
