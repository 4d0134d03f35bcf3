package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PGBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PGBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PGBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidCheckIn        = "некорректный формат даты заезда, ожидается YYYY-MM-DD"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgPropertyNotFound      = "объект не найден"
	msgInsufficientInventory = "недостаточно свободных мест"
	msgUserBlocked           = "пользователь заблокирован владельцем объекта"
	msgActiveBookingExists   = "у пользователя уже есть активное бронирование этого объекта"
	msgInvalidInput          = "некорректные данные бронирования"
)

type Handler struct {
	useCase    CreateBookingUseCase
	dispatcher handlers.EventDispatcher
	logger     Logger
}

func NewHandler(useCase CreateBookingUseCase, dispatcher handlers.EventDispatcher, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid check-in date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCheckIn)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrPropertyNotFound):
			h.logger.Warn("POST /bookings - Property not found: property_id=%s", req.PropertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		case errors.Is(err, createBooking.ErrInsufficientInventory):
			h.logger.Warn("POST /bookings - Not enough slots: property_id=%s, occupants=%d",
				req.PropertyID, useCaseReq.Occupants)
			handlers.RespondConflict(w, msgInsufficientInventory)

		case errors.Is(err, createBooking.ErrActiveBookingExists):
			h.logger.Warn("POST /bookings - Active booking exists: user_id=%s, property_id=%s",
				actor.ID, req.PropertyID)
			handlers.RespondConflict(w, msgActiveBookingExists)

		case errors.Is(err, createBooking.ErrUserBlocked):
			h.logger.Warn("POST /bookings - User blocked: user_id=%s, property_id=%s", actor.ID, req.PropertyID)
			handlers.RespondForbidden(w, msgUserBlocked)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /bookings - Transaction conflict: property_id=%s", req.PropertyID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, property_id=%s, error=%v",
				actor.ID, req.PropertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.dispatcher.Dispatch(result.Events...)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user_id=%s, property_id=%s",
		result.Booking.ID, actor.ID, req.PropertyID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
