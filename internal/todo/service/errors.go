package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// NonFieldErrors is the Fields key for errors not tied to one input field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages back to the client.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e when it holds any message, else nil.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(field, msg string) error {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

const (
	msgRequired      = "This field is required."
	msgBlank         = "This field may not be blank."
	msgDoesNotExist  = "Object does not exist."
	msgDeletedBoard  = "not allowed in deleted board"
	msgDeletedCat    = "not allowed in deleted category"
	msgDeletedGoal   = "not allowed in deleted goal"
	msgDateInPast    = "Date in past"
	msgDateFormat    = "Date has wrong format. Use YYYY-MM-DD."
	msgReadOnlyField = "This field cannot be changed."
)
