package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"payment-orchestrator/internal/payment/domain"
)

type TokenizerClient struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewTokenizerClient(log *slog.Logger, baseURL string, timeout time.Duration) *TokenizerClient {
	return &TokenizerClient{
		log:     log,
		baseURL: baseURL,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type tokenizeReq struct {
	PayerID  string          `json:"payerId"`
	PayeeID  string          `json:"payeeId"`
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

type tokenizeResp struct {
	PanToken string `json:"panToken"`
	IBAN     string `json:"iban"`
}

// Tokenize forwards the original payment request body to the tokenizer. The
// amount is sent as raw JSON to keep the submitted text intact.
func (c *TokenizerClient) Tokenize(ctx context.Context, pr domain.PaymentRequest) (domain.TokenizationResult, error) {
	payload, err := json.Marshal(tokenizeReq{
		PayerID:  pr.PayerID,
		PayeeID:  pr.PayeeID,
		Amount:   json.RawMessage(pr.AmountText),
		Currency: pr.Currency,
	})
	if err != nil {
		return domain.TokenizationResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokenize", bytes.NewReader(payload))
	if err != nil {
		return domain.TokenizationResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.TokenizationResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.TokenizationResult{}, fmt.Errorf("tokenizer returned %d", resp.StatusCode)
	}

	var body tokenizeResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.TokenizationResult{}, fmt.Errorf("malformed tokenizer response: %w", err)
	}
	if body.PanToken == "" {
		return domain.TokenizationResult{}, fmt.Errorf("malformed tokenizer response: missing panToken")
	}

	return domain.TokenizationResult{PanToken: body.PanToken, IBAN: body.IBAN}, nil
}
