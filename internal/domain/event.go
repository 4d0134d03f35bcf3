package domain

import (
	"fmt"
	"time"
)

// EventType тип события, которое жизненный цикл отдает на доставку
type EventType string

const (
	EventNewBooking       EventType = "new_booking"
	EventBookingAccepted  EventType = "booking_accepted"
	EventBookingRejected  EventType = "booking_rejected"
	EventBookingCancelled EventType = "booking_cancelled"
	EventStayCompleted    EventType = "stay_completed"
	EventGuestCheckedOut  EventType = "guest_checked_out"
	EventNewReview        EventType = "new_review"
)

// Event уведомление для получателя; доставляется после фиксации транзакции
type Event struct {
	ID          string
	Type        EventType
	RecipientID string
	Title       string
	Message     string
	BookingID   string
	PropertyID  string
	CreatedAt   time.Time
}

// Notification сохраненное in-app уведомление
type Notification struct {
	Event
	IsRead bool
	ReadAt *time.Time
}

func newEvent(t EventType, recipientID, title, message string, b *Booking, now time.Time) Event {
	return Event{
		Type:        t,
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		CreatedAt:   now,
	}
}

// NewBookingEvent владельцу о новой заявке
func NewBookingEvent(b *Booking, now time.Time) Event {
	return newEvent(EventNewBooking, b.OwnerID, "New Booking Request",
		fmt.Sprintf("%s has requested to book %s.", b.UserName, b.PropertyName), b, now)
}

// BookingAcceptedEvent пользователю о подтверждении
func BookingAcceptedEvent(b *Booking, now time.Time) Event {
	return newEvent(EventBookingAccepted, b.UserID, "Booking Confirmed",
		fmt.Sprintf("Your booking for %s has been confirmed by the owner.", b.PropertyName), b, now)
}

// BookingRejectedEvent пользователю об отклонении
func BookingRejectedEvent(b *Booking, now time.Time) Event {
	return newEvent(EventBookingRejected, b.UserID, "Booking Rejected",
		fmt.Sprintf("Your booking for %s has been rejected by the owner.", b.PropertyName), b, now)
}

// BookingCancelledEvent владельцу об отмене
func BookingCancelledEvent(b *Booking, now time.Time) Event {
	return newEvent(EventBookingCancelled, b.OwnerID, "Booking Cancelled",
		fmt.Sprintf("%s has cancelled their booking for %s.", b.UserName, b.PropertyName), b, now)
}

// StayCompletedEvents пользователю и владельцу о выезде
func StayCompletedEvents(b *Booking, now time.Time) []Event {
	return []Event{
		newEvent(EventStayCompleted, b.UserID, "Stay Completed",
			fmt.Sprintf("You have successfully checked out from %s.", b.PropertyName), b, now),
		newEvent(EventGuestCheckedOut, b.OwnerID, "Guest Checked Out",
			fmt.Sprintf("%s has checked out from %s.", b.UserName, b.PropertyName), b, now),
	}
}

// NewReviewEvent владельцу о новом отзыве
func NewReviewEvent(b *Booking, now time.Time) Event {
	return newEvent(EventNewReview, b.OwnerID, "New Review Received",
		fmt.Sprintf("%s left a review for %s.", b.UserName, b.PropertyName), b, now)
}
