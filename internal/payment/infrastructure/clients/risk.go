package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"payment-orchestrator/internal/risk"
)

// RiskClient calls the remote risk service. Timeouts are mandatory: a hung
// downstream aborts the saga like any other call failure.
type RiskClient struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewRiskClient(log *slog.Logger, baseURL string, timeout time.Duration) *RiskClient {
	return &RiskClient{
		log:     log,
		baseURL: baseURL,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type riskResp struct {
	PayerID   string `json:"payerId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	RiskScore int    `json:"riskScore"`
	Decision  string `json:"decision"`
	TxnID     string `json:"txnId"`
}

func (c *RiskClient) Assess(ctx context.Context, payerID, amountText, currency string) (risk.Assessment, error) {
	q := url.Values{}
	q.Set("payerId", payerID)
	q.Set("amount", amountText)
	q.Set("currency", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/risk?"+q.Encode(), nil)
	if err != nil {
		return risk.Assessment{}, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return risk.Assessment{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return risk.Assessment{}, fmt.Errorf("risk service returned %d", resp.StatusCode)
	}

	var body riskResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return risk.Assessment{}, fmt.Errorf("malformed risk response: %w", err)
	}
	if body.TxnID == "" || body.Decision == "" {
		return risk.Assessment{}, fmt.Errorf("malformed risk response: missing txnId or decision")
	}

	return risk.Assessment{
		PayerID:   body.PayerID,
		Amount:    body.Amount,
		Currency:  body.Currency,
		RiskScore: body.RiskScore,
		Decision:  risk.Decision(body.Decision),
		TxnID:     body.TxnID,
	}, nil
}
