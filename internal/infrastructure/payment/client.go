// Package payment talks to the external payment provider over HTTP.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
	"github.com/DanielPopoola/ficmart-order-service/internal/config"
)

type HTTPPaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentClient(cfg config.PaymentClientConfig) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

// SubmitPayment posts the submission to the provider. The provider responds
// out-of-band through its callback; a 2xx here only acknowledges receipt.
func (c *HTTPPaymentClient) SubmitPayment(ctx context.Context, req application.PaymentSubmission) error {
	url := fmt.Sprintf("%s/api/payments", c.baseURL)

	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		var provErr ProviderErrorResponse
		if err := json.Unmarshal(body, &provErr); err != nil {
			return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
		}
		return &ProviderError{
			Code:       provErr.Err,
			Message:    provErr.Message,
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}
