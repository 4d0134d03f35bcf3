package notifier

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// Sink получатель событий: in-app хранилище, шина событий
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event domain.Event) error
}

// Recorder счетчики доставки
type Recorder interface {
	RecordNotification(sink string, err error)
	RecordNotificationDropped()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
