package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

// writeServiceError maps service errors onto the status taxonomy. Anything
// unrecognised is logged and answered with 500; op names the failed action.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, verr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, todosdk.ErrorCodeAuthFailed, "Incorrect authentication credentials.")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, todosdk.ErrorCodePermission, "You do not have permission to perform this action.")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, todosdk.ErrorCodeNotFound, "Not found.")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "op", op, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, todosdk.ErrorCodeServerError, "Failed to "+op)
	}
}

func writeValidation(w http.ResponseWriter, fields map[string][]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{
		Error:            todosdk.ErrorCodeValidation,
		ErrorDescription: "Invalid input.",
		Fields:           fields,
	})
}

// decodeBody decodes a JSON request body, answering 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		writeValidation(w, map[string][]string{
			service.NonFieldErrors: {"Invalid JSON in request body."},
		})
		return false
	}
	return true
}

func isPartial(r *http.Request) bool { return r.Method == http.MethodPatch }
