package inventory

import (
	"context"
	"errors"
	"fmt"

	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
	"github.com/m04kA/SMC-PGBookingService/internal/service/inventory/models"
)

// Service чтение инвентаря для публичного эндпоинта доступности
type Service struct {
	propertyRepo PropertyRepository
	logger       Logger
}

func NewService(propertyRepo PropertyRepository, logger Logger) *Service {
	return &Service{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// GetInventory возвращает текущие слоты и производные комнаты объекта
func (s *Service) GetInventory(ctx context.Context, propertyID string) (*models.InventoryResponse, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			s.logger.Warn("GetInventory: property id=%s not found", propertyID)
			return nil, ErrPropertyNotFound
		}
		s.logger.Error("GetInventory: repository error for property id=%s: %v", propertyID, err)
		return nil, fmt.Errorf("%w: GetInventory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProperty(property), nil
}
