package get_inventory

import (
	"context"

	"github.com/m04kA/SMC-PGBookingService/internal/service/inventory/models"
)

type InventoryService interface {
	GetInventory(ctx context.Context, propertyID string) (*models.InventoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
