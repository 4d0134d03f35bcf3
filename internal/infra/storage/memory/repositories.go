package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	notificationRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/notification"
	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
)

// Ошибки совпадают с ошибками Postgres-репозиториев, чтобы слой use case не различал хранилища

// PropertyRepository инвентарь объектов
type PropertyRepository struct {
	s *Store
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	if err := p.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: Create - %w", propertyRepo.ErrInventoryInvariant, err)
	}

	unlock := r.s.lock(ctx)
	defer unlock()

	c := copyProperty(p)
	c.UpdatedAt = time.Now()
	p.UpdatedAt = c.UpdatedAt
	r.s.properties[p.ID] = c
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	p, ok := r.s.properties[id]
	if !ok {
		return nil, propertyRepo.ErrPropertyNotFound
	}
	return copyProperty(p), nil
}

func (r *PropertyRepository) UpdateInventory(ctx context.Context, p *domain.Property) error {
	if err := p.CheckInvariants(); err != nil {
		return fmt.Errorf("%w: UpdateInventory - %w", propertyRepo.ErrInventoryInvariant, err)
	}

	unlock := r.s.lock(ctx)
	defer unlock()

	stored, ok := r.s.properties[p.ID]
	if !ok {
		return propertyRepo.ErrPropertyNotFound
	}
	stored.AvailableSlots = p.AvailableSlots
	stored.OccupiedSlots = p.OccupiedSlots
	stored.AvailableRooms = p.AvailableRooms
	stored.OccupiedRooms = p.OccupiedRooms
	stored.UpdatedAt = time.Now()
	return nil
}

// BookingRepository бронирования
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if b.IsActive() && r.s.hasActive(b.UserID, b.PropertyID) {
		return nil, bookingRepo.ErrActiveBookingExists
	}
	if _, exists := r.s.bookings[b.ID]; exists {
		return nil, fmt.Errorf("%w: Create - duplicate id %s", bookingRepo.ErrExecQuery, b.ID)
	}

	r.s.bookings[b.ID] = copyBooking(b)
	r.s.bookingOrder = append(r.s.bookingOrder, b.ID)
	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *BookingRepository) HasActive(ctx context.Context, userID, propertyID string) (bool, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	return r.s.hasActive(userID, propertyID), nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	out := make([]*domain.Booking, 0)
	// Обратный порядок вставки; при равном created_at новые остаются первыми
	for i := len(r.s.bookingOrder) - 1; i >= 0; i-- {
		b := r.s.bookings[r.s.bookingOrder[i]]
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.OwnerID != "" && b.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, copyBooking(b))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	r.s.bookings[b.ID] = copyBooking(b)
	return nil
}

func (s *Store) hasActive(userID, propertyID string) bool {
	for _, b := range s.bookings {
		if b.UserID == userID && b.PropertyID == propertyID && b.IsActive() {
			return true
		}
	}
	return false
}

// StayHistoryRepository история проживаний
type StayHistoryRepository struct {
	s *Store
}

func (r *StayHistoryRepository) Append(ctx context.Context, entry *domain.StayHistoryEntry) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	c := *entry
	r.s.stays = append(r.s.stays, &c)
	return nil
}

func (r *StayHistoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.StayHistoryEntry, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	out := make([]*domain.StayHistoryEntry, 0)
	for i := len(r.s.stays) - 1; i >= 0; i-- {
		if r.s.stays[i].UserID == userID {
			c := *r.s.stays[i]
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// NotificationRepository in-app уведомления
type NotificationRepository struct {
	s *Store
}

func (r *NotificationRepository) Name() string {
	return notificationRepo.SinkName
}

func (r *NotificationRepository) Deliver(ctx context.Context, event domain.Event) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, exists := r.s.notifications[event.ID]; exists {
		return nil
	}
	r.s.notifications[event.ID] = &domain.Notification{Event: event}
	r.s.notifyOrder = append(r.s.notifyOrder, event.ID)
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, notificationRepo.ErrNotificationNotFound
	}
	return copyNotification(n), nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	out := make([]*domain.Notification, 0)
	for i := len(r.s.notifyOrder) - 1; i >= 0; i-- {
		n := r.s.notifications[r.s.notifyOrder[i]]
		if n.RecipientID == userID {
			out = append(out, copyNotification(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return notificationRepo.ErrNotificationNotFound
	}
	n.IsRead = true
	n.ReadAt = &readAt
	return nil
}
