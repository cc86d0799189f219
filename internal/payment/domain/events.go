package domain

import "github.com/shopspring/decimal"

// PaymentCreated is announced on the event stream when a payment reaches
// status CREATED. Delivery is at-least-once; consumers dedupe on TxnID.
type PaymentCreated struct {
	Event    string          `json:"event"`
	TxnID    string          `json:"txnId"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func NewPaymentCreated(rec PaymentRecord) PaymentCreated {
	return PaymentCreated{
		Event:    "PaymentCreated",
		TxnID:    rec.TxnID,
		Amount:   rec.Amount,
		Currency: rec.Currency,
	}
}
