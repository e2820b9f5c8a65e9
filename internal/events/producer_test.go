package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopit/internal/logging"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{w: fw}

	require.NoError(t, p.Publish(context.Background(), TopicOrders, Event{Type: "order.created", ID: "o1", Data: map[string]any{"total": 45}}))
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, []byte("o1"), msg.Key)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "order.created", ev.Type)
	assert.False(t, ev.At.IsZero())
}

func TestEmit_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(&buf, "info"))

	p := &Producer{w: &fakeWriter{err: errors.New("broker down")}}
	Emit(ctx, p, TopicUsers, "user.registered", "u1", nil)

	assert.Contains(t, buf.String(), "kafka_publish_failed")
	assert.Contains(t, buf.String(), "broker down")

	Emit(ctx, Nop{}, TopicUsers, "user.registered", "u1", nil)
	Emit(ctx, nil, TopicUsers, "user.registered", "u1", nil)
}
