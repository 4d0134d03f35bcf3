package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// SinkName имя получателя в метриках доставки
const SinkName = "kafka"

// Writer часть kafka.Writer, которая нужна публикатору
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BreakerSettings параметры circuit breaker
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Publisher публикует события бронирований в топик Kafka
type Publisher struct {
	writer  Writer
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	log     Logger
}

// NewKafkaWriter writer с ключевой балансировкой: события одного бронирования идут в одну партицию
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(writer Writer, settings BreakerSettings, timeout time.Duration, log Logger) *Publisher {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	p := &Publisher{
		writer:  writer,
		timeout: timeout,
		log:     log,
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-publisher",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s changed state: %s -> %s", name, from, to)
		},
	})
	return p
}

func (p *Publisher) Name() string {
	return SinkName
}

// Deliver отправляет событие; пока breaker разомкнут, брокер не вызывается
func (p *Publisher) Deliver(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(fromDomainEvent(event))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		writeCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			writeCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		return nil, p.writer.WriteMessages(writeCtx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: event id=%s", ErrBreakerOpen, event.ID)
		}
		return fmt.Errorf("%w: event id=%s: %v", ErrPublish, event.ID, err)
	}

	return nil
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}
