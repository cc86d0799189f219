package audit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one observed PaymentCreated delivery, recorded at most once per
// transaction id.
type Entry struct {
	TxnID      string
	Amount     decimal.Decimal
	Currency   string
	ReceivedAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Deduper skips already-seen deliveries; at-least-once transport makes
// duplicates expected, not exceptional.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}
