package application

import (
	"context"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/internal/risk"
)

type RiskClient interface {
	Assess(ctx context.Context, payerID, amountText, currency string) (risk.Assessment, error)
}

type TokenizerClient interface {
	Tokenize(ctx context.Context, req domain.PaymentRequest) (domain.TokenizationResult, error)
}

type PaymentRepository interface {
	Upsert(ctx context.Context, rec domain.PaymentRecord) error
	GetByTxnID(ctx context.Context, txnID string) (domain.PaymentRecord, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event domain.PaymentCreated) error
}

// RetryQueue takes events whose in-request publish attempt failed; a relay
// drains it out-of-band. Enqueue is best effort.
type RetryQueue interface {
	Enqueue(ctx context.Context, txnID, eventType string, payload []byte) error
}
