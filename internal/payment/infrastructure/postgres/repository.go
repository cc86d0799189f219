package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/internal/risk"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Upsert inserts the record or, when the transaction id already exists,
// overwrites status, pan_token and iban in place. The business columns stay
// untouched on conflict: concurrent writers for the same id compute
// identical data, so last write wins without staleness detection.
func (r *Repository) Upsert(ctx context.Context, rec domain.PaymentRecord) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payments (txn_id, payer_id, payee_id, amount, currency, risk_score, decision, pan_token, iban, status, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			ON CONFLICT (txn_id) DO UPDATE SET status=EXCLUDED.status, pan_token=EXCLUDED.pan_token, iban=EXCLUDED.iban, updated_at=EXCLUDED.updated_at`,
		rec.TxnID, rec.PayerID, rec.PayeeID, rec.Amount.String(), rec.Currency,
		rec.RiskScore, string(rec.Decision), rec.PanToken, rec.IBAN, string(rec.Status),
		rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *Repository) GetByTxnID(ctx context.Context, txnID string) (domain.PaymentRecord, error) {
	var (
		rec        domain.PaymentRecord
		amountText string
		decision   string
		status     string
	)
	err := r.pool.QueryRow(ctx, `SELECT txn_id, payer_id, payee_id, amount::text, currency, risk_score, decision, pan_token, iban, status, created_at, updated_at
			FROM payments WHERE txn_id=$1`, txnID).
		Scan(&rec.TxnID, &rec.PayerID, &rec.PayeeID, &amountText, &rec.Currency,
			&rec.RiskScore, &decision, &rec.PanToken, &rec.IBAN, &status,
			&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PaymentRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PaymentRecord{}, err
	}

	rec.Amount, err = decimal.NewFromString(amountText)
	if err != nil {
		return domain.PaymentRecord{}, err
	}
	rec.Decision = risk.Decision(decision)
	rec.Status = domain.Status(status)
	return rec, nil
}
