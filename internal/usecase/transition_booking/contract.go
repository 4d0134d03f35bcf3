package transition_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// PropertyRepository интерфейс инвентаря объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	UpdateInventory(ctx context.Context, p *domain.Property) error
}

// StayHistoryRepository история проживаний
type StayHistoryRepository interface {
	Append(ctx context.Context, entry *domain.StayHistoryEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransitionRecorder метрики исходов переходов
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

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
