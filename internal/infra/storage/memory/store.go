package memory

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

type txKey struct{}

// Store хранилище в памяти процесса для storage.backend = "memory" и тестов
// Транзакция захватывает единственную блокировку записи; при ошибке состояние откатывается из снимка
type Store struct {
	mu sync.Mutex

	properties    map[string]*domain.Property
	bookings      map[string]*domain.Booking
	bookingOrder  []string
	stays         []*domain.StayHistoryEntry
	notifications map[string]*domain.Notification
	notifyOrder   []string
}

func NewStore() *Store {
	return &Store{
		properties:    make(map[string]*domain.Property),
		bookings:      make(map[string]*domain.Booking),
		notifications: make(map[string]*domain.Notification),
	}
}

// lock захватывает мьютекс, если вызов идет вне транзакции
// Внутри транзакции мьютекс уже удерживается TxManager
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

type snapshot struct {
	properties    map[string]*domain.Property
	bookings      map[string]*domain.Booking
	bookingOrder  []string
	stays         []*domain.StayHistoryEntry
	notifications map[string]*domain.Notification
	notifyOrder   []string
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		properties:    make(map[string]*domain.Property, len(s.properties)),
		bookings:      make(map[string]*domain.Booking, len(s.bookings)),
		bookingOrder:  append([]string(nil), s.bookingOrder...),
		stays:         append([]*domain.StayHistoryEntry(nil), s.stays...),
		notifications: make(map[string]*domain.Notification, len(s.notifications)),
		notifyOrder:   append([]string(nil), s.notifyOrder...),
	}
	for k, v := range s.properties {
		snap.properties[k] = copyProperty(v)
	}
	for k, v := range s.bookings {
		snap.bookings[k] = copyBooking(v)
	}
	for k, v := range s.notifications {
		snap.notifications[k] = copyNotification(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.properties = snap.properties
	s.bookings = snap.bookings
	s.bookingOrder = snap.bookingOrder
	s.stays = snap.stays
	s.notifications = snap.notifications
	s.notifyOrder = snap.notifyOrder
}

// Repositories

func (s *Store) Properties() *PropertyRepository {
	return &PropertyRepository{s: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

func (s *Store) StayHistory() *StayHistoryRepository {
	return &StayHistoryRepository{s: s}
}

func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{s: s}
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

func copyProperty(p *domain.Property) *domain.Property {
	c := *p
	c.BlockedUsers = append([]string(nil), p.BlockedUsers...)
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.Review != nil {
		r := *b.Review
		c.Review = &r
	}
	return &c
}

func copyNotification(n *domain.Notification) *domain.Notification {
	c := *n
	return &c
}
