package application

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/internal/risk"
)

type RiskClientMock struct {
	mock.Mock
}

func (m *RiskClientMock) Assess(ctx context.Context, payerID, amountText, currency string) (risk.Assessment, error) {
	args := m.Called(ctx, payerID, amountText, currency)
	return args.Get(0).(risk.Assessment), args.Error(1)
}

type TokenizerClientMock struct {
	mock.Mock
}

func (m *TokenizerClientMock) Tokenize(ctx context.Context, req domain.PaymentRequest) (domain.TokenizationResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.TokenizationResult), args.Error(1)
}

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) Upsert(ctx context.Context, rec domain.PaymentRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *RepositoryMock) GetByTxnID(ctx context.Context, txnID string) (domain.PaymentRecord, error) {
	args := m.Called(ctx, txnID)
	return args.Get(0).(domain.PaymentRecord), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, key string, event domain.PaymentCreated) error {
	args := m.Called(ctx, key, event)
	return args.Error(0)
}

type RetryQueueMock struct {
	mock.Mock
}

func (m *RetryQueueMock) Enqueue(ctx context.Context, txnID, eventType string, payload []byte) error {
	args := m.Called(ctx, txnID, eventType, payload)
	return args.Error(0)
}

// memoryRepo is a thread-safe fake used by the concurrency test, where the
// strict call expectations of a mock get in the way.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[string]domain.PaymentRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[string]domain.PaymentRecord)}
}

func (r *memoryRepo) Upsert(_ context.Context, rec domain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[rec.TxnID]; ok {
		existing.Status = rec.Status
		existing.PanToken = rec.PanToken
		existing.IBAN = rec.IBAN
		existing.UpdatedAt = rec.UpdatedAt
		r.rows[rec.TxnID] = existing
		return nil
	}
	r.rows[rec.TxnID] = rec
	return nil
}

func (r *memoryRepo) GetByTxnID(_ context.Context, txnID string) (domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[txnID]
	if !ok {
		return domain.PaymentRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r *memoryRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
