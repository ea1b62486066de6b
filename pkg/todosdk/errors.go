package todosdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrorCodeValidation       = "validation_error"
	ErrorCodeNotAuthenticated = "not_authenticated"
	ErrorCodeAuthFailed       = "authentication_failed"
	ErrorCodePermission       = "permission_denied"
	ErrorCodeNotFound         = "not_found"
	ErrorCodeRateLimited      = "rate_limit_exceeded"
	ErrorCodeServerError      = "server_error"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Fields      map[string][]string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "todolist: %d %s", e.StatusCode, e.Code)
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " [%s: %s]", k, strings.Join(e.Fields[k], "; "))
		}
	}
	return b.String()
}

// StatusCode returns the HTTP status of an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsValidation(err error) bool   { return StatusCode(err) == http.StatusBadRequest }
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return StatusCode(err) == http.StatusForbidden }
func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		apiErr.Code = er.Error
		apiErr.Description = er.ErrorDescription
		apiErr.Fields = er.Fields
		return apiErr
	}

	apiErr.Code = http.StatusText(resp.StatusCode)
	apiErr.Description = strings.TrimSpace(string(body))
	return apiErr
}
