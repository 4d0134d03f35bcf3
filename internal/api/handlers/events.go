package handlers

import "github.com/m04kA/SMC-PGBookingService/internal/domain"

// EventDispatcher очередь доставки событий после успешной операции
type EventDispatcher interface {
	Dispatch(events ...domain.Event)
}
