package list_notifications

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, userID string, actor domain.Actor) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
