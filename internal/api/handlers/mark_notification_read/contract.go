package mark_notification_read

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	MarkRead(ctx context.Context, notificationID string, actor domain.Actor) (*models.NotificationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
