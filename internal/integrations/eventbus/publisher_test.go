package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
)

type fakeWriter struct {
	err      error
	calls    int
	messages []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestDeliver_WritesKeyedJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w, BreakerSettings{}, time.Second, logger.Nop())

	event := domain.Event{
		ID:          "e1",
		Type:        domain.EventBookingAccepted,
		RecipientID: "u1",
		Title:       "Booking Confirmed",
		BookingID:   "b1",
		PropertyID:  "p1",
		CreatedAt:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Deliver(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "b1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "booking_accepted", string(msg.Headers[0].Value))

	var decoded Message
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "e1", decoded.ID)
	assert.Equal(t, "u1", decoded.RecipientID)
	assert.Equal(t, event.CreatedAt, decoded.CreatedAt)
	assert.Equal(t, SinkName, p.Name())
}

func TestDeliver_BreakerOpensAfterFailures(t *testing.T) {
	w := &fakeWriter{err: errors.New("dial tcp: connection refused")}
	p := NewPublisher(w, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute}, time.Second, logger.Nop())
	event := domain.Event{ID: "e1", Type: domain.EventNewBooking, BookingID: "b1"}

	for i := 0; i < 2; i++ {
		err := p.Deliver(context.Background(), event)
		assert.ErrorIs(t, err, ErrPublish)
	}

	err := p.Deliver(context.Background(), event)
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 2, w.calls)
}
