package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"payment-orchestrator/internal/payment/domain"
	"payment-orchestrator/pkg/tracing"
)

type Writer struct {
	*kafka.Writer
}

// NewWriter builds a producer with acks=all and key-hash partitioning, so
// every event for one transaction id lands in the same partition and replays
// cannot interleave out of order for a single consumer-group partition.
func NewWriter(brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.Writer.WriteMessages(ctx, msgs...)
}

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher emits PaymentCreated events keyed by transaction id.
// At-least-once: duplicate delivery is possible and tolerated downstream,
// never suppressed here.
type Publisher struct {
	log    *slog.Logger
	writer Producer
	topic  string
}

func NewPublisher(log *slog.Logger, writer Producer, topic string) *Publisher {
	return &Publisher{log: log, writer: writer, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, key string, event domain.PaymentCreated) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(event.Event)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topic,
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	})
}
