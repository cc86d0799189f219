package audit

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRecorder struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewPostgresRecorder(log *slog.Logger, pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{log: log, pool: pool}
}

// Record inserts one audit row per transaction id. ON CONFLICT DO NOTHING is
// the second line of defense behind the Redis dedupe.
func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_audit (txn_id, amount, currency, received_at)
			VALUES ($1,$2,$3,$4) ON CONFLICT (txn_id) DO NOTHING`,
		e.TxnID, e.Amount.String(), e.Currency, e.ReceivedAt)
	return err
}
