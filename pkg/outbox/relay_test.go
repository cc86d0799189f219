package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	pending []Event
	sent    []int64
	failed  []int64
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, batchSize int, _ time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, nil
	}
	n := min(batchSize, len(s.pending))
	batch := s.pending[:n]
	s.pending = s.pending[n:]
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeStore) ExtendLease(context.Context, string, []int64, time.Duration) error { return nil }

type fakeProducer struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	failOn string
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if p.failOn != "" && string(m.Key) == p.failOn {
			return errors.New("write failed")
		}
		p.msgs = append(p.msgs, m)
	}
	return nil
}

func TestRelay_DrainsQueue(t *testing.T) {
	t.Parallel()
	store := &fakeStore{pending: []Event{
		{ID: 1, TxnID: "aaaa111122223333", Type: "PaymentCreated", Payload: []byte(`{}`)},
		{ID: 2, TxnID: "bbbb444455556666", Type: "PaymentCreated", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{}
	dispatch := NewDispatcher(slog.Default(), producer, "payments.events")

	relay := &Relay{
		log:       slog.Default(),
		store:     store,
		dispatch:  dispatch,
		relayID:   "test-relay",
		batchSize: 10,
		interval:  10 * time.Millisecond,
		lease:     time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, relay.Run(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.ElementsMatch(t, []int64{1, 2}, store.sent)
	require.Empty(t, store.failed)

	producer.mu.Lock()
	defer producer.mu.Unlock()
	require.Len(t, producer.msgs, 2)
	require.Equal(t, "aaaa111122223333", string(producer.msgs[0].Key))
}

func TestRelay_MarksFailedAndKeepsGoing(t *testing.T) {
	t.Parallel()
	store := &fakeStore{pending: []Event{
		{ID: 1, TxnID: "aaaa111122223333", Type: "PaymentCreated", Payload: []byte(`{}`)},
		{ID: 2, TxnID: "bbbb444455556666", Type: "PaymentCreated", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{failOn: "aaaa111122223333"}
	dispatch := NewDispatcher(slog.Default(), producer, "payments.events")

	relay := &Relay{
		log:       slog.Default(),
		store:     store,
		dispatch:  dispatch,
		relayID:   "test-relay",
		batchSize: 10,
		interval:  10 * time.Millisecond,
		lease:     time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, relay.Run(ctx))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Equal(t, []int64{2}, store.sent)
	require.Equal(t, []int64{1}, store.failed)
}

func TestDispatcher_SetsHeadersAndKey(t *testing.T) {
	t.Parallel()
	producer := &fakeProducer{}
	dispatch := NewDispatcher(slog.Default(), producer, "payments.events")

	err := dispatch.Dispatch(context.Background(), Event{
		ID:      7,
		TxnID:   "feedfacecafebeef",
		Type:    "PaymentCreated",
		Payload: []byte(`{"txnId":"feedfacecafebeef"}`),
	})
	require.NoError(t, err)
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	require.Equal(t, "payments.events", msg.Topic)
	require.Equal(t, "feedfacecafebeef", string(msg.Key))

	var eventType string
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			eventType = string(h.Value)
		}
	}
	require.Equal(t, "PaymentCreated", eventType)
}
