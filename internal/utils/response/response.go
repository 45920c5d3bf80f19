// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may return any JSON shape. Error responses always look
// like:
//
//	{ "status": "error", "error": "field first_name is required" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/learnhub/learning-api/internal/storage"
)

// Response is the standard envelope returned for error and message-only
// replies.
type Response struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// exposeInternal controls whether 500 responses carry the underlying
// error text. Off in production.
var exposeInternal atomic.Bool

func init() {
	exposeInternal.Store(true)
}

// SetExposeInternal toggles internal error details in 500 responses.
func SetExposeInternal(v bool) {
	exposeInternal.Store(v)
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
// Header() must be set before WriteHeader, and WriteHeader before the body.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// OK wraps a human-readable confirmation.
func OK(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

// InternalError is the 500 body. The error text is replaced with a
// generic message unless internal details are exposed.
func InternalError(err error) Response {
	if exposeInternal.Load() {
		return GeneralError(err)
	}
	return Response{Status: StatusError, Error: "internal server error"}
}

// StorageError maps a storage error onto a status code and writes it:
// ErrNotFound is 404, ErrConflict is 409, anything else is logged and
// reported as 500.
func StorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, GeneralError(err))
	case errors.Is(err, storage.ErrConflict):
		WriteJSON(w, http.StatusConflict, GeneralError(err))
	default:
		slog.Error("storage failure", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusInternalServerError, InternalError(err))
	}
}

// ValidationError converts validator field errors into a single
// human-readable Response, one sentence per failing field.
//
//	{ "status": "error", "error": "field user_id is required, field email must be a valid email address" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "academic_level":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of High School, University, Graduate, Professional", e.Field()))
		case "course_level":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of Beginner, Intermediate, Advanced", e.Field()))
		case "min", "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be %s %s", e.Field(), bound(e.ActualTag()), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}

// BadRequest writes a 400. Validator failures are rendered field by field;
// any other error is passed through as-is.
func BadRequest(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteJSON(w, http.StatusBadRequest, ValidationError(verrs))
		return
	}
	WriteJSON(w, http.StatusBadRequest, GeneralError(err))
}
