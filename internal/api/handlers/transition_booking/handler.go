package transition_booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PGBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PGBookingService/internal/api/middleware"
	transitionBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/transition_booking"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgNotFound      = "бронирование не найдено"
	msgForbidden     = "действие недоступно для этого пользователя"
	msgInvalidState  = "переход недопустим из текущего статуса бронирования"
	msgInvalidInput  = "некорректный запрос"
)

type actionFunc func(ctx context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error)

// Handler обработчики переходов: accept, reject, cancel, complete
type Handler struct {
	useCase    TransitionUseCase
	dispatcher handlers.EventDispatcher
	logger     Logger
}

func NewHandler(useCase TransitionUseCase, dispatcher handlers.EventDispatcher, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Accept PATCH /api/v1/bookings/{bookingId}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, transitionBooking.ActionAccept, h.useCase.Accept)
}

// Reject PATCH /api/v1/bookings/{bookingId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, transitionBooking.ActionReject, h.useCase.Reject)
}

// Cancel PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, transitionBooking.ActionCancel, h.useCase.Cancel)
}

// Complete PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, transitionBooking.ActionComplete, h.useCase.Complete)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action transitionBooking.Action, fn actionFunc) {
	bookingID := mux.Vars(r)["bookingId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/%s - Missing user ID", action)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := fn(r.Context(), &transitionBooking.Request{BookingID: bookingID, Actor: actor})
	if err != nil {
		switch {
		case errors.Is(err, transitionBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/%s - Booking not found: booking_id=%s", action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionBooking.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/%s - Access denied: booking_id=%s, user_id=%s",
				action, bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionBooking.ErrInvalidState):
			h.logger.Warn("PATCH /bookings/{id}/%s - Invalid state: booking_id=%s", action, bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, transitionBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/%s - Invalid input: %v", action, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, transitionBooking.ErrConflict):
			h.logger.Warn("PATCH /bookings/{id}/%s - Transaction conflict: booking_id=%s", action, bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("PATCH /bookings/{id}/%s - Failed: booking_id=%s, error=%v", action, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.dispatcher.Dispatch(result.Events...)

	h.logger.Info("PATCH /bookings/{id}/%s - Booking is %s: booking_id=%s, user_id=%s, released=%d",
		action, result.Booking.Status, bookingID, actor.ID, result.ReleasedSlots)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
