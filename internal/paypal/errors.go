package paypal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup finishes without locating the
// requested record. Callers should match it with errors.Is.
var ErrNotFound = errors.New("not found")

// AuthError reports a credential failure: the authorization server
// rejected the credentials, or the API rejected a freshly minted token.
// Retrying with the same credentials will not succeed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError reports a request the API rejected outright. The request
// itself is at fault, so retrying it unchanged will not succeed.
type RequestError struct {
	Err    error
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request rejected: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// TransientError reports a failure that may clear on its own: a
// transport error, a 5xx response, or a response body that could not be
// decoded. The client never retries these; that policy belongs to
// callers.
type TransientError struct {
	Err    error
	Status int
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// APIError is the structured error document PayPal attaches to non-2xx
// responses.
type APIError struct {
	Name    string           `json:"name"`
	Message string           `json:"message"`
	DebugID string           `json:"debug_id"`
	Details []APIErrorDetail `json:"details"`
	Status  int              `json:"-"`
}

// APIErrorDetail is one entry in an APIError's details list.
type APIErrorDetail struct {
	Issue    string `json:"issue"`
	Location string `json:"location"`
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Details)+1)
	parts = append(parts, fmt.Sprintf("%s: %s", e.Name, e.Message))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s (in %s)", d.Issue, d.Location))
	}
	return strings.Join(parts, " - ")
}

// parseAPIError decodes an error response body. Bodies that are not the
// documented error document fall back to their raw text.
func parseAPIError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Name != "" {
		apiErr.Status = status
		return &apiErr
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = "no response body"
	}
	return fmt.Errorf("status %d: %s", status, text)
}
