package application

import (
	"errors"
	"net/http"

	"github.com/DanielPopoola/ficmart-order-service/internal/domain"
)

// ToHTTPStatus maps a coordinator error to the HTTP status the REST layer
// should respond with.
func ToHTTPStatus(err error) int {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case domain.ErrCodeInvalidTransition, domain.ErrCodeConflict:
		return http.StatusConflict
	case domain.ErrCodeDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToErrorCode returns a stable machine-readable error code for API responses.
func ToErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}
