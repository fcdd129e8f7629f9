package predictor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is returned for every failed call to the prediction API.  Message is
// the text the page shows in its banner.  Status is the HTTP status, or 0
// when the request never produced a usable response.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// statusError builds the Error for a non-2xx response.  The API reports
// failures as {"detail": "..."}; anything else falls back to a generic
// message carrying the status code.
func statusError(status int, body []byte) *Error {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && strings.TrimSpace(s) != "" {
			return &Error{Status: status, Message: s}
		}
	}
	return &Error{Status: status, Message: fmt.Sprintf("Request failed with status %d", status)}
}

func transportError(err error) *Error {
	return &Error{Message: err.Error(), Err: err}
}
