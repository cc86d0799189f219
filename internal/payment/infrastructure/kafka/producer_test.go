package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"payment-orchestrator/internal/payment/domain"
)

type capturingProducer struct {
	msgs []kafkago.Message
	err  error
}

func (p *capturingProducer) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := &capturingProducer{}
	pub := NewPublisher(slog.Default(), producer, "payments.events")

	event := domain.PaymentCreated{
		Event:    "PaymentCreated",
		TxnID:    "a1b2c3d4e5f60718",
		Amount:   decimal.RequireFromString("100.00"),
		Currency: "USD",
	}
	require.NoError(t, pub.Publish(context.Background(), event.TxnID, event))
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	require.Equal(t, "payments.events", msg.Topic)
	require.Equal(t, event.TxnID, string(msg.Key))

	var decoded domain.PaymentCreated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, event.TxnID, decoded.TxnID)
	require.Equal(t, "USD", decoded.Currency)
	require.True(t, decoded.Amount.Equal(event.Amount))
}

func TestPublisher_WriteError(t *testing.T) {
	t.Parallel()
	pub := NewPublisher(slog.Default(), &capturingProducer{err: errors.New("broker down")}, "payments.events")

	err := pub.Publish(context.Background(), "a1b2c3d4e5f60718", domain.PaymentCreated{})
	require.Error(t, err)
}
