package submit_review

import "github.com/m04kA/SMC-PGBookingService/internal/domain"

// Request модель запроса на отзыв
type Request struct {
	BookingID string
	UserID    string
	Text      string
	Rating    int // 1..5
}

// Response бронирование с отзывом и событие для владельца
type Response struct {
	Booking *domain.Booking
	Events  []domain.Event
}
