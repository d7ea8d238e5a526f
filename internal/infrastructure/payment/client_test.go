package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/config"
	"github.com/DanielPopoola/ficmart-order-service/internal/infrastructure/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *payment.HTTPPaymentClient {
	return payment.NewPaymentClient(config.PaymentClientConfig{
		BaseURL:       serverURL,
		ConnTimeout:   5 * time.Second,
		SubmitTimeout: 5 * time.Second,
	})
}

func TestSubmitPayment_PostsSubmission(t *testing.T) {
	var received application.PaymentSubmission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	submission := testSubmission()

	err := client.SubmitPayment(context.Background(), submission)

	require.NoError(t, err)
	assert.Equal(t, submission.OrderNumber, received.OrderNumber)
	assert.Equal(t, submission.PaymentMethod, received.PaymentMethod)
	assert.True(t, submission.Amount.Equal(received.Amount))
}

func TestSubmitPayment_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(payment.ProviderErrorResponse{
			Err:     "internal_error",
			Message: "provider temporarily unavailable",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.SubmitPayment(context.Background(), testSubmission())

	require.Error(t, err)
	provErr, ok := payment.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "internal_error", provErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, provErr.StatusCode)
	assert.True(t, provErr.IsRetryable())
}

func TestSubmitPayment_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	err := client.SubmitPayment(context.Background(), testSubmission())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
