// Package server provides the HTTP API for viewing and exporting business profiles.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/rendering"
	"github.com/jonathan/venture-profile/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error. Wrapped
// errors are matched by type.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		schemaErr     *schemas.ValidationError
		deliveryErr   *export.DeliveryError
		renderErr     *rendering.RenderError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &deliveryErr):
		return http.StatusBadGateway
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
