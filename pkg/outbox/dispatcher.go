package outbox

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"payment-orchestrator/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Dispatcher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewDispatcher(log *slog.Logger, producer Producer, topic string) *Dispatcher {
	return &Dispatcher{log: log, producer: producer, topic: topic}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   d.topic,
		Key:     []byte(event.TxnID),
		Value:   event.Payload,
		Headers: headers,
	}
	if err := d.producer.WriteMessages(ctx, msg); err != nil {
		d.log.Error("retry dispatch failed", "event_id", event.ID, "txn_id", event.TxnID, "err", err)
		return err
	}
	d.log.Info("retry dispatched", "event_id", event.ID, "txn_id", event.TxnID, "type", event.Type)
	return nil
}
