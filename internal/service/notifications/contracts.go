package notifications

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// NotificationRepository интерфейс хранилища in-app уведомлений
type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
