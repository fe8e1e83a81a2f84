package service

import (
	"context"
	"fmt"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"

	"github.com/go-resty/resty/v2"
)

// PaystackClient is a thin wrapper over the Paystack transaction API.
type PaystackClient struct {
	client *resty.Client
}

func NewPaystackClient(cfg *config.PaystackConfig) *PaystackClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &PaystackClient{client: client}
}

type paystackEnvelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type PaystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type PaystackVerifyData struct {
	Status   string  `json:"status"` // success, failed, abandoned
	Amount   int64   `json:"amount"` // subunits
	Currency string  `json:"currency"`
	Channel  string  `json:"channel"`
	PaidAt   *string `json:"paid_at"`
}

// Initialize creates a pending transaction. Amount is in major units and
// converted to subunits as Paystack expects.
func (p *PaystackClient) Initialize(ctx context.Context, email, reference, currency string, amount float64) (*PaystackInitData, error) {
	var result paystackEnvelope[PaystackInitData]
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"email":     email,
			"amount":    int64(amount * 100),
			"currency":  currency,
			"reference": reference,
		}).
		SetResult(&result).
		Post("/transaction/initialize")
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	if resp.IsError() || !result.Status {
		return nil, fmt.Errorf("paystack initialize failed: %s", result.Message)
	}
	return &result.Data, nil
}

func (p *PaystackClient) Verify(ctx context.Context, reference string) (*PaystackVerifyData, error) {
	var result paystackEnvelope[PaystackVerifyData]
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	if resp.IsError() || !result.Status {
		return nil, fmt.Errorf("paystack verify failed: %s", result.Message)
	}
	return &result.Data, nil
}
