package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"payment-orchestrator/internal/risk"
)

type Status string

const (
	StatusDeclined      Status = "DECLINED"
	StatusCreated       Status = "CREATED"
	StatusPendingReview Status = "PENDING_REVIEW"
)

var (
	// ErrNotFound is the client-visible miss on a transaction-id lookup.
	ErrNotFound = errors.New("payment not found")

	ErrPayerRequired  = errors.New("payerId is required")
	ErrPayeeRequired  = errors.New("payeeId is required")
	ErrAmountInvalid  = errors.New("amount must be a positive decimal")
	ErrCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// PaymentRequest is one inbound payment creation call. AmountText keeps the
// exact textual amount as submitted: the risk oracle hashes that text, so
// reformatting it would break transaction-id determinism across replays.
type PaymentRequest struct {
	PayerID    string
	PayeeID    string
	Amount     decimal.Decimal
	AmountText string
	Currency   string
}

func NewPaymentRequest(payerID, payeeID, amountText, currency string) (PaymentRequest, error) {
	if payerID == "" {
		return PaymentRequest{}, ErrPayerRequired
	}
	if payeeID == "" {
		return PaymentRequest{}, ErrPayeeRequired
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil || !amount.IsPositive() {
		return PaymentRequest{}, ErrAmountInvalid
	}
	if len(currency) != 3 || !isLetters(currency) {
		return PaymentRequest{}, ErrCurrencyFormat
	}
	return PaymentRequest{
		PayerID:    payerID,
		PayeeID:    payeeID,
		Amount:     amount,
		AmountText: amountText,
		Currency:   currency,
	}, nil
}

func isLetters(s string) bool {
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// TokenizationResult is the tokenizer output for a non-rejected payment.
type TokenizationResult struct {
	PanToken string
	IBAN     string
}

// PaymentRecord is the persisted outcome of one orchestration run, keyed by
// the deterministic transaction id. Replays of the same logical request
// overwrite status, token and IBAN in place; the business fields are fixed
// by construction.
type PaymentRecord struct {
	TxnID     string
	PayerID   string
	PayeeID   string
	Amount    decimal.Decimal
	Currency  string
	RiskScore int
	Decision  risk.Decision
	PanToken  *string
	IBAN      *string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPaymentRecord(req PaymentRequest, a risk.Assessment, tok *TokenizationResult, status Status) PaymentRecord {
	now := time.Now().UTC()
	rec := PaymentRecord{
		TxnID:     a.TxnID,
		PayerID:   req.PayerID,
		PayeeID:   req.PayeeID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		RiskScore: a.RiskScore,
		Decision:  a.Decision,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tok != nil {
		rec.PanToken = &tok.PanToken
		rec.IBAN = &tok.IBAN
	}
	return rec
}

// StatusFor maps a risk decision to the terminal record status.
func StatusFor(d risk.Decision) Status {
	switch d {
	case risk.DecisionApprove:
		return StatusCreated
	case risk.DecisionReview:
		return StatusPendingReview
	default:
		return StatusDeclined
	}
}
