package payment

import (
	"errors"
	"fmt"
)

type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
}

type ProviderErrorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *ProviderError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	ok := errors.As(err, &provErr)
	return provErr, ok
}
