package mykafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	w := &stubWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), "order_events", "ORD-0A1B2C3D", map[string]any{
		"type":         "order_created",
		"order_number": "ORD-0A1B2C3D",
	})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order_events", w.msgs[0].Topic)
	assert.Equal(t, "ORD-0A1B2C3D", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"type":"order_created","order_number":"ORD-0A1B2C3D"}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_MarshalError(t *testing.T) {
	w := &stubWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), "order_events", "k", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
	assert.Empty(t, w.msgs)
}

func TestPublishEvent_WriteError(t *testing.T) {
	p := &Producer{writer: &stubWriter{err: errors.New("leader not available")}}

	err := p.PublishEvent(context.Background(), "order_events", "k", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
