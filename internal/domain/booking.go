package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// IsValid проверяет, что статус входит в известный набор
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// transitions допустимые переходы; терминальные статусы отсутствуют
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition сообщает, разрешен ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Review отзыв о проживании, прикрепляется один раз к завершенному бронированию
type Review struct {
	UserID    string
	Text      string
	Rating    int
	CreatedAt time.Time
}

// Booking represents a PG booking request
type Booking struct {
	ID         string
	UserID     string
	OwnerID    string
	PropertyID string
	Occupants  int // Фиксируется при создании

	// Denormalized data for notifications and history
	PropertyName string
	UserName     string

	RentAmount      decimal.Decimal
	SecurityDeposit decimal.Decimal
	TotalAmount     decimal.Decimal

	CheckIn  *time.Time
	CheckOut *time.Time // Заполняется при завершении проживания
	DueDate  time.Time

	Status BookingStatus
	Review *Review

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
}

// IsActive returns true if the booking is pending or confirmed
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HoldsSlots true, пока бронирование удерживает места в инвентаре
// Места занимаются при создании и удерживаются до выхода из активного статуса
func (b *Booking) HoldsSlots() bool {
	return b.IsActive()
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return len(transitions[b.Status]) == 0
}

// Accept подтверждение владельцем: pending -> confirmed, места не меняются
func (b *Booking) Accept(actorID string, now time.Time) (int, error) {
	if b.OwnerID != actorID {
		return 0, ErrNotOwner
	}
	if err := b.moveTo(StatusConfirmed, now); err != nil {
		return 0, err
	}
	b.ConfirmedAt = &now
	return 0, nil
}

// Reject отклонение владельцем: pending -> rejected, места освобождаются
func (b *Booking) Reject(actorID string, now time.Time) (int, error) {
	if b.OwnerID != actorID {
		return 0, ErrNotOwner
	}
	if err := b.moveTo(StatusRejected, now); err != nil {
		return 0, err
	}
	b.RejectedAt = &now
	return b.Occupants, nil
}

// Cancel отмена пользователем из pending или confirmed, места освобождаются в обоих случаях
func (b *Booking) Cancel(actorID string, now time.Time) (int, error) {
	if b.UserID != actorID {
		return 0, ErrNotBookingUser
	}
	held := b.HoldsSlots()
	if err := b.moveTo(StatusCancelled, now); err != nil {
		return 0, err
	}
	b.CancelledAt = &now
	if !held {
		return 0, nil
	}
	return b.Occupants, nil
}

// Complete выезд пользователя: confirmed -> completed, места освобождаются
func (b *Booking) Complete(actorID string, now time.Time) (int, error) {
	if b.UserID != actorID {
		return 0, ErrNotBookingUser
	}
	if err := b.moveTo(StatusCompleted, now); err != nil {
		return 0, err
	}
	b.CompletedAt = &now
	b.CheckOut = &now
	return b.Occupants, nil
}

// AttachReview прикрепляет отзыв пользователя к завершенному бронированию
func (b *Booking) AttachReview(actorID, text string, rating int, now time.Time) error {
	if b.UserID != actorID {
		return ErrNotBookingUser
	}
	if b.Status != StatusCompleted {
		return fmt.Errorf("%w: review requires %s, got %s", ErrInvalidTransition, StatusCompleted, b.Status)
	}
	if b.Review != nil {
		return ErrAlreadyReviewed
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}

	b.Review = &Review{
		UserID:    actorID,
		Text:      text,
		Rating:    rating,
		CreatedAt: now,
	}
	b.UpdatedAt = now
	return nil
}

func (b *Booking) moveTo(to BookingStatus, now time.Time) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// BookingsFilter фильтр для выборки бронирований пользователя или владельца
type BookingsFilter struct {
	UserID  string         // Заполняется для выборки пользователя
	OwnerID string         // Заполняется для выборки владельца
	Status  *BookingStatus // Опционально
}

// StayHistoryEntry запись о завершенном проживании пользователя
type StayHistoryEntry struct {
	ID           string
	UserID       string
	BookingID    string
	PropertyID   string
	PropertyName string
	CheckIn      *time.Time
	CheckOut     time.Time
	CreatedAt    time.Time
}
