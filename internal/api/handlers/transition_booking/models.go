package transition_booking

import (
	"github.com/m04kA/SMC-PGBookingService/internal/service/bookings/models"
	transitionBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/transition_booking"
)

// TransitionResponse HTTP response model
type TransitionResponse struct {
	Booking       *models.BookingResponse `json:"booking"`
	ReleasedSlots int                     `json:"releasedSlots"`
}

func FromUseCaseResponse(resp *transitionBooking.Response) *TransitionResponse {
	return &TransitionResponse{
		Booking:       models.FromDomainBooking(resp.Booking),
		ReleasedSlots: resp.ReleasedSlots,
	}
}
