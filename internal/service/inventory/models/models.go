package models

import (
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// InventoryResponse публичное состояние мест объекта
type InventoryResponse struct {
	PropertyID      string    `json:"propertyId"`
	RoomCapacity    int       `json:"roomCapacity"`
	TotalRooms      int       `json:"totalRooms"`
	TotalSlots      int       `json:"totalSlots"`
	AvailableSlots  int       `json:"availableSlots"`
	OccupiedSlots   int       `json:"occupiedSlots"`
	AvailableRooms  int       `json:"availableRooms"`
	OccupiedRooms   int       `json:"occupiedRooms"`
	HasAvailability bool      `json:"hasAvailability"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromDomainProperty конвертирует инвентарь в DTO
// Комнаты пересчитываются из слотов, сохраненные значения не используются
func FromDomainProperty(p *domain.Property) *InventoryResponse {
	availableRooms, occupiedRooms := domain.DeriveRooms(p.AvailableSlots, p.OccupiedSlots, p.RoomCapacity)
	return &InventoryResponse{
		PropertyID:      p.ID,
		RoomCapacity:    p.RoomCapacity,
		TotalRooms:      p.TotalRooms,
		TotalSlots:      p.TotalSlots,
		AvailableSlots:  p.AvailableSlots,
		OccupiedSlots:   p.OccupiedSlots,
		AvailableRooms:  availableRooms,
		OccupiedRooms:   occupiedRooms,
		HasAvailability: p.HasAvailability(),
		UpdatedAt:       p.UpdatedAt,
	}
}
