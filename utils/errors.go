package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// AppError is an error with a fixed HTTP status. Anything that is not an
// AppError is surfaced as a generic 500 with no internal detail leaked.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// ValidationError builds a 400 error with a field-level message.
func ValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError builds a 404 error.
func NotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// ForbiddenError builds a 403 error.
func ForbiddenError(format string, args ...interface{}) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// RespondJSON writes payload as a JSON response.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// RespondMessage writes a {"message": ...} envelope.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondError maps err onto the error taxonomy: AppError keeps its status
// and message, everything else becomes a logged 500 "Server error".
func RespondError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondMessage(w, appErr.Status, appErr.Message)
		return
	}
	log.Error().Err(err).Msg("unhandled error")
	RespondMessage(w, http.StatusInternalServerError, "Server error")
}
