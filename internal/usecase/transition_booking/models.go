package transition_booking

import "github.com/m04kA/SMC-PGBookingService/internal/domain"

// Action переход жизненного цикла
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Request модель запроса на переход
type Request struct {
	BookingID string
	Actor     domain.Actor
}

// Response бронирование после перехода и события для доставки
type Response struct {
	Booking       *domain.Booking
	ReleasedSlots int
	Events        []domain.Event
}
