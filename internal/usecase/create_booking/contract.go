package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// PropertyRepository интерфейс инвентаря объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	UpdateInventory(ctx context.Context, p *domain.Property) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	HasActive(ctx context.Context, userID, propertyID string) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransitionRecorder метрики исходов операций над бронированиями
type TransitionRecorder interface {
	RecordTransition(action, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
