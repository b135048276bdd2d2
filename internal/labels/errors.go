package labels

import (
	"errors"
	"net/http"
)

// Domain errors for label operations.
var (
	ErrNotFound         = errors.New("label not found")
	ErrDuplicate        = errors.New("label already exists")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrStorage          = errors.New("label storage failure")
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
	ErrInvalidFile      = errors.New("invalid file")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
