package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
)

type fakeSink struct {
	name string
	err  error

	mu     sync.Mutex
	events []domain.Event
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Deliver(_ context.Context, e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *fakeSink) received() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	results map[string]int
	dropped int
}

func (r *fakeRecorder) RecordNotification(sink string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]int{}
	}
	key := sink + ":ok"
	if err != nil {
		key = sink + ":error"
	}
	r.results[key]++
}

func (r *fakeRecorder) RecordNotificationDropped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
}

func TestDispatcher_FansOutToEverySink(t *testing.T) {
	inapp := &fakeSink{name: "inapp"}
	bus := &fakeSink{name: "kafka", err: errors.New("broker unavailable")}
	rec := &fakeRecorder{}

	d := NewDispatcher(8, []Sink{inapp, bus}, rec, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Dispatch(
		domain.Event{Type: domain.EventStayCompleted, RecipientID: "u1", BookingID: "b1"},
		domain.Event{ID: "fixed", Type: domain.EventGuestCheckedOut, RecipientID: "o1", BookingID: "b1"},
	)

	require.Eventually(t, func() bool { return len(bus.received()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	got := inapp.received()
	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "fixed", got[1].ID)
	assert.Equal(t, got[0].ID, bus.received()[0].ID)

	assert.Equal(t, 2, rec.results["inapp:ok"])
	assert.Equal(t, 2, rec.results["kafka:error"])
}

func TestDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	sink := &fakeSink{name: "inapp"}
	rec := &fakeRecorder{}
	d := NewDispatcher(1, []Sink{sink}, rec, logger.Nop())

	// Воркер не запущен: первое событие занимает очередь, второе отбрасывается
	d.Dispatch(
		domain.Event{Type: domain.EventNewBooking, RecipientID: "o1"},
		domain.Event{Type: domain.EventNewBooking, RecipientID: "o2"},
	)
	assert.Equal(t, 1, rec.dropped)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	got := sink.received()
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].RecipientID)
}
