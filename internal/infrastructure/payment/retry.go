package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/config"
)

// RetryPaymentClient wraps a PaymentClient with bounded retries. Because the
// whole submission runs inside the coordinator's submit timeout, retrying
// here never blocks a caller.
type RetryPaymentClient struct {
	inner      application.PaymentClient
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryPaymentClient(inner application.PaymentClient, cfg config.RetryConfig) *RetryPaymentClient {
	return &RetryPaymentClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: cfg.MaxRetries,
	}
}

func (r *RetryPaymentClient) SubmitPayment(ctx context.Context, req application.PaymentSubmission) error {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := r.inner.SubmitPayment(ctx, req)
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-time.After(r.backoff(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.IsRetryable()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryPaymentClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}
