package get_stay_history

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetStayHistory(ctx context.Context, userID string, actor domain.Actor) (*models.StayHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
