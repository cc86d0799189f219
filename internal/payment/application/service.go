package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/internal/risk"
)

var (
	// ErrUpstreamUnavailable marks a failed or malformed risk/tokenizer call.
	// The saga aborts and nothing is written.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPersistence marks a store failure after the upstream chain
	// succeeded. Surfaced to the caller: the response must never claim a
	// status without a matching durable record.
	ErrPersistence = errors.New("persistence failed")
)

type PaymentResponse struct {
	TxnID     string
	Status    domain.Status
	RiskScore int
	PanToken  *string
	IBAN      *string
}

// Service drives the payment saga: risk assessment, conditional
// tokenization, idempotent persistence and, on the CREATED path, one event
// publish attempt. Persistence is the commit point; the publish is not.
type Service struct {
	log       *slog.Logger
	risk      RiskClient
	tokenizer TokenizerClient
	repo      PaymentRepository
	publisher EventPublisher
	retries   RetryQueue
}

func NewService(log *slog.Logger, rc RiskClient, tc TokenizerClient, repo PaymentRepository, pub EventPublisher, retries RetryQueue) *Service {
	return &Service{
		log:       log,
		risk:      rc,
		tokenizer: tc,
		repo:      repo,
		publisher: pub,
		retries:   retries,
	}
}

func (s *Service) CreatePayment(ctx context.Context, req domain.PaymentRequest) (PaymentResponse, error) {
	assessment, err := s.risk.Assess(ctx, req.PayerID, req.AmountText, req.Currency)
	if err != nil {
		s.log.Error("risk call failed", "payer_id", req.PayerID, "err", err)
		return PaymentResponse{}, fmt.Errorf("%w: risk: %w", ErrUpstreamUnavailable, err)
	}
	s.log.Info("risk assessed", "txn_id", assessment.TxnID, "score", assessment.RiskScore, "decision", assessment.Decision)

	if assessment.Decision == risk.DecisionReject {
		rec := domain.NewPaymentRecord(req, assessment, nil, domain.StatusDeclined)
		if err := s.persist(ctx, rec); err != nil {
			return PaymentResponse{}, err
		}
		return toResponse(rec), nil
	}

	tok, err := s.tokenizer.Tokenize(ctx, req)
	if err != nil {
		s.log.Error("tokenize call failed", "txn_id", assessment.TxnID, "err", err)
		return PaymentResponse{}, fmt.Errorf("%w: tokenize: %w", ErrUpstreamUnavailable, err)
	}

	rec := domain.NewPaymentRecord(req, assessment, &tok, domain.StatusFor(assessment.Decision))
	if err := s.persist(ctx, rec); err != nil {
		return PaymentResponse{}, err
	}

	if rec.Status == domain.StatusCreated {
		s.announce(ctx, rec)
	}
	return toResponse(rec), nil
}

func (s *Service) GetPayment(ctx context.Context, txnID string) (PaymentResponse, error) {
	rec, err := s.repo.GetByTxnID(ctx, txnID)
	if err != nil {
		return PaymentResponse{}, err
	}
	return toResponse(rec), nil
}

// persist issues the single upsert for this run. The write is shielded from
// caller cancellation: once issued it must complete, otherwise the store and
// the response could diverge.
func (s *Service) persist(ctx context.Context, rec domain.PaymentRecord) error {
	if err := s.repo.Upsert(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Error("persist failed", "txn_id", rec.TxnID, "status", rec.Status, "err", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.log.Info("payment persisted", "txn_id", rec.TxnID, "status", rec.Status)
	return nil
}

// announce makes exactly one publish attempt. The record is already the
// source of truth, so a failure is queued for out-of-band retry and never
// surfaced to the caller.
func (s *Service) announce(ctx context.Context, rec domain.PaymentRecord) {
	event := domain.NewPaymentCreated(rec)
	pubErr := s.publisher.Publish(ctx, rec.TxnID, event)
	if pubErr == nil {
		s.log.Info("payment event published", "txn_id", rec.TxnID)
		return
	}
	s.log.Error("publish failed, queueing for retry", "txn_id", rec.TxnID, "err", pubErr)

	if s.retries == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("event marshal failed", "txn_id", rec.TxnID, "err", err)
		return
	}
	if err := s.retries.Enqueue(context.WithoutCancel(ctx), rec.TxnID, "PaymentCreated", payload); err != nil {
		s.log.Error("retry enqueue failed", "txn_id", rec.TxnID, "err", err)
	}
}

func toResponse(rec domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		TxnID:     rec.TxnID,
		Status:    rec.Status,
		RiskScore: rec.RiskScore,
		PanToken:  rec.PanToken,
		IBAN:      rec.IBAN,
	}
}
