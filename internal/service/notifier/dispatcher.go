package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

const defaultQueueSize = 1024

// Dispatcher доставляет события после фиксации транзакции
// Ошибки доставки не влияют на уже выполненный переход бронирования
type Dispatcher struct {
	queue    chan domain.Event
	sinks    []Sink
	recorder Recorder
	timeout  time.Duration
	logger   Logger
}

// NewDispatcher создает диспетчер. recorder может быть nil
func NewDispatcher(queueSize int, sinks []Sink, recorder Recorder, logger Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		queue:    make(chan domain.Event, queueSize),
		sinks:    sinks,
		recorder: recorder,
		timeout:  5 * time.Second,
		logger:   logger,
	}
}

// Dispatch ставит события в очередь и никогда не блокируется
// При переполненной очереди событие отбрасывается
func (d *Dispatcher) Dispatch(events ...domain.Event) {
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		select {
		case d.queue <- e:
		default:
			d.logger.Warn("Dispatch: queue is full, dropping event type=%s, recipient=%s, booking=%s",
				e.Type, e.RecipientID, e.BookingID)
			if d.recorder != nil {
				d.recorder.RecordNotificationDropped()
			}
		}
	}
}

// Run обрабатывает очередь до отмены ctx, затем дочитывает уже принятые события
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Dispatcher started with %d sinks", len(d.sinks))
	for {
		select {
		case e := <-d.queue:
			d.deliver(e)
		case <-ctx.Done():
			d.drain()
			d.logger.Info("Dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case e := <-d.queue:
			d.deliver(e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(e domain.Event) {
	for _, sink := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := sink.Deliver(ctx, e)
		cancel()

		if d.recorder != nil {
			d.recorder.RecordNotification(sink.Name(), err)
		}
		if err != nil {
			d.logger.Error("Dispatcher: sink=%s failed to deliver event id=%s type=%s: %v",
				sink.Name(), e.ID, e.Type, err)
		}
	}
}
