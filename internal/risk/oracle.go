package risk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash/fnv"

	"github.com/shopspring/decimal"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReview  Decision = "REVIEW"
	DecisionReject  Decision = "REJECT"
)

const DefaultSecret = "demo-secret"

// Assessment is the oracle output for one (payer, amount, currency) triple.
// Identical inputs always reproduce the identical assessment as long as the
// secret is unchanged, which is what makes downstream persistence idempotent
// under request replay.
type Assessment struct {
	PayerID   string
	Amount    string
	Currency  string
	RiskScore int
	Decision  Decision
	TxnID     string
}

// Oracle scores payments deterministically. It has no state beyond the HMAC
// secret used for transaction-id derivation.
type Oracle struct {
	secret []byte
}

func NewOracle(secret string) *Oracle {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Oracle{secret: []byte(secret)}
}

// NormalizeAmount coerces an absent or unparsable amount to "0". The
// coercion is a compatibility policy, not an error path: /risk accepts any
// amount text and never rejects it.
func NormalizeAmount(amountText string) string {
	if amountText == "" {
		return "0"
	}
	if _, err := decimal.NewFromString(amountText); err != nil {
		return "0"
	}
	return amountText
}

// Assess computes score, decision and transaction id for the given inputs.
// Missing fields fall back to sentinels: payer "UNKNOWN", amount "0",
// currency "CAD".
func (o *Oracle) Assess(payerID, amountText, currency string) Assessment {
	if payerID == "" {
		payerID = "UNKNOWN"
	}
	amountText = NormalizeAmount(amountText)
	if currency == "" {
		currency = "CAD"
	}

	material := payerID + "|" + amountText + "|" + currency

	h := fnv.New32a()
	_, _ = h.Write([]byte(material))
	score := 55 + int(h.Sum32()%41) // 55..95

	var decision Decision
	switch {
	case score >= 85:
		decision = DecisionApprove
	case score >= 70:
		decision = DecisionReview
	default:
		decision = DecisionReject
	}

	mac := hmac.New(sha256.New, o.secret)
	_, _ = mac.Write([]byte(material))
	txnID := hex.EncodeToString(mac.Sum(nil))[:16]

	return Assessment{
		PayerID:   payerID,
		Amount:    amountText,
		Currency:  currency,
		RiskScore: score,
		Decision:  decision,
		TxnID:     txnID,
	}
}
