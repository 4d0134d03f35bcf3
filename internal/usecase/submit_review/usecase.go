package submit_review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PGBookingService/pkg/txmanager"
)

// UseCase отзыв о завершенном проживании
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// Execute прикрепляет отзыв к бронированию: только автор, только completed, только один раз
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitReview: booking=%s, user=%s, rating=%d", req.BookingID, req.UserID, req.Rating)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitReview: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var result *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("SubmitReview: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if err := booking.AttachReview(req.UserID, strings.TrimSpace(req.Text), req.Rating, now); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotBookingUser):
				uc.logger.Warn("SubmitReview: user=%s is not the author of booking=%s", req.UserID, booking.ID)
				return ErrUnauthorized
			case errors.Is(err, domain.ErrInvalidTransition):
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			case errors.Is(err, domain.ErrAlreadyReviewed):
				return ErrAlreadyReviewed
			case errors.Is(err, domain.ErrInvalidRating):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: attach review: %w", ErrInternal, err)
		}

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			uc.logger.Error("SubmitReview: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrTxConflict) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	uc.logger.Info("SubmitReview: review saved for booking=%s", result.ID)

	return &Response{
		Booking: result,
		Events:  []domain.Event{domain.NewReviewEvent(result, now)},
	}, nil
}

func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BookingID) == "" || strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: bookingID and userID are required", ErrInvalidInput)
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if utf8.RuneCountInString(req.Text) > domain.MaxReviewTextLength {
		return fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, domain.MaxReviewTextLength)
	}
	return nil
}
