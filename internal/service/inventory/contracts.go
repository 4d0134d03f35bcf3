package inventory

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// PropertyRepository интерфейс инвентаря объектов
type PropertyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Property, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
