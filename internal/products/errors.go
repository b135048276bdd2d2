package products

import (
	"errors"
	"net/http"
)

// Domain errors for product operations.
var (
	ErrNotFound       = errors.New("product not found")
	ErrDuplicate      = errors.New("product already exists")
	ErrInvalidProduct = errors.New("invalid product")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidProduct) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
