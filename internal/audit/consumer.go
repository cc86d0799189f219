package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/pkg/idempotency"
	"payment-orchestrator/pkg/tracing"
)

// Consumer tails the payments topic and keeps an audit trail of created
// payments. It is the reference implementation of the system contract that
// event consumers must be idempotent on transaction id.
type Consumer struct {
	log      *slog.Logger
	reader   *kafka.Reader
	recorder Recorder
	dedupe   Deduper
	tracer   trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, recorder Recorder, dedupe Deduper) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:      log,
		reader:   r,
		recorder: recorder,
		dedupe:   dedupe,
		tracer:   otel.Tracer("audit-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		if err := c.process(ctx, msg); err != nil {
			c.log.Error("audit process failed", "topic", msg.Topic, "offset", msg.Offset, "err", err)
		}
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	seen, err := c.dedupe.Seen(ctx, idempotency.OffsetKey(msg.Topic, msg.Partition, msg.Offset))
	if err != nil {
		return err
	}
	if seen {
		c.log.Info("duplicate delivery skipped", "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumePaymentCreated")
	defer span.End()

	var event domain.PaymentCreated
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// Poison message: log and move on, redelivery cannot fix it.
		c.log.Error("unmarshal failed", "offset", msg.Offset, "err", err)
		return nil
	}

	// Replays of the same transaction arrive with fresh offsets; the txn-id
	// check is what actually makes the audit trail idempotent.
	seen, err = c.dedupe.Seen(msgCtx, idempotency.TxnKey(msg.Topic, event.TxnID))
	if err != nil {
		return err
	}
	if seen {
		c.log.Info("replayed transaction skipped", "txn_id", event.TxnID)
		return nil
	}

	entry := Entry{
		TxnID:      event.TxnID,
		Amount:     event.Amount,
		Currency:   event.Currency,
		ReceivedAt: time.Now().UTC(),
	}
	if err := c.recorder.Record(msgCtx, entry); err != nil {
		return err
	}
	c.log.Info("payment audited", "txn_id", event.TxnID)
	return nil
}
