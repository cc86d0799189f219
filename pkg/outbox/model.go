package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
)

// Event is one queued publish retry. TxnID doubles as the Kafka message key
// so redelivered events stay on the partition of the original attempt.
type Event struct {
	ID         int64
	TxnID      string
	Type       string
	Payload    []byte
	CreatedAt  time.Time
	Status     Status
	RetryCount int
	LastError  *string
}
