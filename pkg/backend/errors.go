package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// APIError is a non-2xx response from the backend service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// Is maps well-known statuses onto the domain sentinel errors so callers
// can use errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case domain.ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized
	}
	return false
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
			Message          string `json:"message"`
			Msg              string `json:"msg"`
		}
		if json.Unmarshal(body, &payload) == nil {
			switch {
			case payload.ErrorDescription != "":
				apiErr.Message = payload.ErrorDescription
			case payload.Message != "":
				apiErr.Message = payload.Message
			case payload.Msg != "":
				apiErr.Message = payload.Msg
			case payload.Error != "":
				apiErr.Message = payload.Error
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
