package submit_review

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PGBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PGBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PGBookingService/internal/service/bookings/models"
	submitReview "github.com/m04kA/SMC-PGBookingService/internal/usecase/submit_review"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса, оценка от 1 до 5"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "оставить отзыв может только автор бронирования"
	msgInvalidState       = "отзыв можно оставить только после завершения проживания"
	msgAlreadyReviewed    = "отзыв уже оставлен"
)

type Handler struct {
	useCase    SubmitReviewUseCase
	dispatcher handlers.EventDispatcher
	logger     Logger
}

func NewHandler(useCase SubmitReviewUseCase, dispatcher handlers.EventDispatcher, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/review - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actor.ID))
	if err != nil {
		switch {
		case errors.Is(err, submitReview.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/review - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, submitReview.ErrUnauthorized):
			h.logger.Warn("POST /bookings/{id}/review - Access denied: booking_id=%s, user_id=%s", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, submitReview.ErrInvalidState):
			h.logger.Warn("POST /bookings/{id}/review - Booking not completed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgInvalidState)

		case errors.Is(err, submitReview.ErrAlreadyReviewed):
			h.logger.Warn("POST /bookings/{id}/review - Already reviewed: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgAlreadyReviewed)

		case errors.Is(err, submitReview.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/review - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, submitReview.ErrConflict):
			h.logger.Warn("POST /bookings/{id}/review - Transaction conflict: booking_id=%s", bookingID)
			handlers.RespondServiceUnavailable(w)

		default:
			h.logger.Error("POST /bookings/{id}/review - Failed to submit review: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.dispatcher.Dispatch(result.Events...)

	h.logger.Info("POST /bookings/{id}/review - Review submitted: booking_id=%s, rating=%d", bookingID, req.Rating)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(result.Booking))
}
