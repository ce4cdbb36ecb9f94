package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Payment capture rides on an external provider over plain HTTP. Only the
// request/response contract is ours; the money movement is a black box.
// Configuration: PAYMENT_API_URL, PAYMENT_API_KEY.

type CaptureRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	DestinationID  string `json:"destination_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Description    string `json:"description,omitempty"`
}

type CaptureResult struct {
	ProviderRef string    `json:"id"`
	Status      string    `json:"status"` // captured | failed
	Reason      string    `json:"failure_reason,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}

// PaymentProvider captures a payment at the external processor. An interface
// so routes can be tested without hitting the network.
type PaymentProvider interface {
	Capture(req CaptureRequest) (*CaptureResult, error)
}

type HTTPPaymentProvider struct {
	client *http.Client
}

func NewHTTPPaymentProvider() *HTTPPaymentProvider {
	return &HTTPPaymentProvider{client: &http.Client{Timeout: 30 * time.Second}}
}

func (p *HTTPPaymentProvider) Capture(req CaptureRequest) (*CaptureResult, error) {
	endpoint := os.Getenv("PAYMENT_API_URL")
	apiKey := os.Getenv("PAYMENT_API_KEY")
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("PAYMENT_API_URL and PAYMENT_API_KEY are required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling capture request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, endpoint+"/v1/captures", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating capture request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	res, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling payment provider: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading provider response: %w", err)
	}

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider returned %d: %s", res.StatusCode, string(body))
	}

	var result CaptureResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parsing provider response: %w", err)
	}
	return &result, nil
}
