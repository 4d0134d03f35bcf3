package bookings

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// StayHistoryRepository история проживаний
type StayHistoryRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.StayHistoryEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
