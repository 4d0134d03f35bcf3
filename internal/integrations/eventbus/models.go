package eventbus

import (
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// Message формат события в топике шины
type Message struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	RecipientID string    `json:"recipientId"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	BookingID   string    `json:"bookingId,omitempty"`
	PropertyID  string    `json:"propertyId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func fromDomainEvent(e domain.Event) Message {
	return Message{
		ID:          e.ID,
		Type:        string(e.Type),
		RecipientID: e.RecipientID,
		Title:       e.Title,
		Message:     e.Message,
		BookingID:   e.BookingID,
		PropertyID:  e.PropertyID,
		CreatedAt:   e.CreatedAt,
	}
}
