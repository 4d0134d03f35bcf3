package domain

import (
	"fmt"
	"time"
)

// Property инвентарь мест PG-объекта
// Создается и удаляется внешним CRUD листингов; здесь меняются только поля слотов
type Property struct {
	ID           string
	OwnerID      string
	Name         string
	TotalRooms   int
	RoomCapacity int // Мест в одной комнате, фиксируется при создании

	TotalSlots     int // TotalRooms * RoomCapacity, не меняется
	AvailableSlots int
	OccupiedSlots  int

	// Производные поля только для отображения, пересчитываются в DeriveRooms
	AvailableRooms int
	OccupiedRooms  int

	BlockedUsers []string

	UpdatedAt time.Time
}

// NewProperty создает инвентарь со всеми свободными местами
func NewProperty(id, ownerID, name string, totalRooms, roomCapacity int) (*Property, error) {
	if roomCapacity < 1 {
		return nil, fmt.Errorf("%w: roomCapacity must be positive", ErrInvalidInventory)
	}
	if totalRooms < 0 {
		return nil, fmt.Errorf("%w: totalRooms must not be negative", ErrInvalidInventory)
	}

	total := totalRooms * roomCapacity
	p := &Property{
		ID:             id,
		OwnerID:        ownerID,
		Name:           name,
		TotalRooms:     totalRooms,
		RoomCapacity:   roomCapacity,
		TotalSlots:     total,
		AvailableSlots: total,
	}
	p.recompute()

	return p, nil
}

// IsBlocked возвращает true, если пользователю запрещено бронировать объект
func (p *Property) IsBlocked(userID string) bool {
	for _, id := range p.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Reserve занимает occupants мест для пользователя userID
// Проверка вместимости идет по слотам, а не по комнатам
func (p *Property) Reserve(userID string, occupants int) error {
	if occupants < 1 {
		return ErrInvalidOccupants
	}
	if p.IsBlocked(userID) {
		return ErrUserBlocked
	}
	if p.AvailableSlots < occupants {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientSlots, occupants, p.AvailableSlots)
	}

	p.AvailableSlots -= occupants
	p.OccupiedSlots += occupants
	p.recompute()

	return nil
}

// Release возвращает occupants мест в пул
// Освобождение больше, чем занято, отклоняется
func (p *Property) Release(occupants int) error {
	if occupants < 1 {
		return ErrInvalidOccupants
	}
	if p.OccupiedSlots < occupants {
		return fmt.Errorf("%w: release %d, occupied %d", ErrReleaseExceedsOccupied, occupants, p.OccupiedSlots)
	}

	p.AvailableSlots += occupants
	p.OccupiedSlots -= occupants
	p.recompute()

	return nil
}

// CheckInvariants проверяет available + occupied == total и отсутствие отрицательных значений
func (p *Property) CheckInvariants() error {
	if p.AvailableSlots < 0 || p.OccupiedSlots < 0 {
		return fmt.Errorf("%w: negative slots (available=%d, occupied=%d)",
			ErrInvalidInventory, p.AvailableSlots, p.OccupiedSlots)
	}
	if p.AvailableSlots+p.OccupiedSlots != p.TotalSlots {
		return fmt.Errorf("%w: available(%d) + occupied(%d) != total(%d)",
			ErrInvalidInventory, p.AvailableSlots, p.OccupiedSlots, p.TotalSlots)
	}
	return nil
}

// HasAvailability true, если есть хотя бы одно свободное место
func (p *Property) HasAvailability() bool {
	return p.AvailableSlots > 0
}

func (p *Property) recompute() {
	p.AvailableRooms, p.OccupiedRooms = DeriveRooms(p.AvailableSlots, p.OccupiedSlots, p.RoomCapacity)
}

// DeriveRooms вычисляет комнаты из слотов:
// свободные = floor(available / capacity), занятые = ceil(occupied / capacity)
func DeriveRooms(availableSlots, occupiedSlots, roomCapacity int) (availableRooms, occupiedRooms int) {
	if roomCapacity < 1 {
		roomCapacity = 1
	}
	availableRooms = availableSlots / roomCapacity
	occupiedRooms = (occupiedSlots + roomCapacity - 1) / roomCapacity
	return availableRooms, occupiedRooms
}
