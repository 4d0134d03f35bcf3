package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
	"github.com/m04kA/SMC-PGBookingService/pkg/txmanager"
)

// UseCase переходы жизненного цикла бронирования
// Каждый переход: статус бронирования и освобождение мест фиксируются одной транзакцией
type UseCase struct {
	bookingRepo  BookingRepository
	propertyRepo PropertyRepository
	stayRepo     StayHistoryRepository
	txManager    TransactionManager
	recorder     TransitionRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	propertyRepo PropertyRepository,
	stayRepo StayHistoryRepository,
	txManager TransactionManager,
	recorder TransitionRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		stayRepo:     stayRepo,
		txManager:    txManager,
		recorder:     recorder,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

type transitionFunc func(b *domain.Booking, actorID string, now time.Time) (int, error)

type eventsFunc func(b *domain.Booking, now time.Time) []domain.Event

// Accept pending -> confirmed, только владелец объекта
func (uc *UseCase) Accept(ctx context.Context, req *Request) (*Response, error) {
	return uc.apply(ctx, ActionAccept, req,
		(*domain.Booking).Accept,
		func(b *domain.Booking, now time.Time) []domain.Event {
			return []domain.Event{domain.BookingAcceptedEvent(b, now)}
		})
}

// Reject pending -> rejected, только владелец объекта; места возвращаются
func (uc *UseCase) Reject(ctx context.Context, req *Request) (*Response, error) {
	return uc.apply(ctx, ActionReject, req,
		(*domain.Booking).Reject,
		func(b *domain.Booking, now time.Time) []domain.Event {
			return []domain.Event{domain.BookingRejectedEvent(b, now)}
		})
}

// Cancel pending|confirmed -> cancelled, только автор бронирования; места возвращаются
func (uc *UseCase) Cancel(ctx context.Context, req *Request) (*Response, error) {
	return uc.apply(ctx, ActionCancel, req,
		(*domain.Booking).Cancel,
		func(b *domain.Booking, now time.Time) []domain.Event {
			return []domain.Event{domain.BookingCancelledEvent(b, now)}
		})
}

// Complete confirmed -> completed, только автор бронирования
// Места возвращаются, в историю проживаний добавляется запись
func (uc *UseCase) Complete(ctx context.Context, req *Request) (*Response, error) {
	return uc.apply(ctx, ActionComplete, req,
		(*domain.Booking).Complete,
		domain.StayCompletedEvents)
}

func (uc *UseCase) apply(ctx context.Context, action Action, req *Request, transition transitionFunc, events eventsFunc) (*Response, error) {
	uc.logger.Info("TransitionBooking: action=%s, booking=%s, actor=%s", action, req.BookingID, req.Actor.ID)

	if strings.TrimSpace(req.BookingID) == "" || strings.TrimSpace(req.Actor.ID) == "" {
		uc.record(action, "invalid_input")
		return nil, fmt.Errorf("%w: bookingID and actor are required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var (
		result   *domain.Booking
		released int
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("TransitionBooking: booking id=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("TransitionBooking: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		// 2. Проверяем личность и статус, применяем переход
		from := booking.Status
		released, err = transition(booking, req.Actor.ID, now)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotBookingUser):
				uc.logger.Warn("TransitionBooking: actor=%s is not allowed to %s booking=%s",
					req.Actor.ID, action, booking.ID)
				return fmt.Errorf("%w: %v", ErrUnauthorized, err)
			case errors.Is(err, domain.ErrInvalidTransition):
				uc.logger.Warn("TransitionBooking: cannot %s booking=%s in status %s", action, booking.ID, from)
				return fmt.Errorf("%w: %v", ErrInvalidState, err)
			}
			return fmt.Errorf("%w: transition: %w", ErrInternal, err)
		}

		// 3. Освобождаем места в той же транзакции
		if released > 0 {
			if err := uc.release(txCtx, booking, released); err != nil {
				return err
			}
		}

		// 4. Сохраняем статус и время перехода
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			uc.logger.Error("TransitionBooking: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		// 5. Завершение проживания попадает в историю пользователя
		if action == ActionComplete {
			entry := &domain.StayHistoryEntry{
				ID:           uuid.NewString(),
				UserID:       booking.UserID,
				BookingID:    booking.ID,
				PropertyID:   booking.PropertyID,
				PropertyName: booking.PropertyName,
				CheckIn:      booking.CheckIn,
				CheckOut:     now,
				CreatedAt:    now,
			}
			if err := uc.stayRepo.Append(txCtx, entry); err != nil {
				uc.logger.Error("TransitionBooking: failed to append stay history for booking=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to append stay history: %w", ErrInternal, err)
			}
		}

		uc.logger.Info("TransitionBooking: booking=%s %s -> %s, released=%d", booking.ID, from, booking.Status, released)
		result = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrTxConflict) {
			uc.logger.Warn("TransitionBooking: retry budget exhausted for booking=%s: %v", req.BookingID, err)
			uc.record(action, "conflict")
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		uc.record(action, resultLabel(err))
		if resultLabel(err) == "error" && !errors.Is(err, ErrInternal) {
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.record(action, "ok")

	return &Response{
		Booking:       result,
		ReleasedSlots: released,
		Events:        events(result, now),
	}, nil
}

// release возвращает места бронирования в инвентарь объекта
// Если объект уже удален сервисом листингов, возвращать места некуда
func (uc *UseCase) release(ctx context.Context, booking *domain.Booking, occupants int) error {
	property, err := uc.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
			uc.logger.Warn("TransitionBooking: property id=%s of booking=%s no longer exists, skip release",
				booking.PropertyID, booking.ID)
			return nil
		}
		uc.logger.Error("TransitionBooking: failed to get property id=%s: %v", booking.PropertyID, err)
		return fmt.Errorf("%w: failed to get property: %w", ErrInternal, err)
	}

	if err := property.Release(occupants); err != nil {
		uc.logger.Error("TransitionBooking: inventory of property=%s is inconsistent: %v", property.ID, err)
		return fmt.Errorf("%w: release: %w", ErrInternal, err)
	}

	if err := uc.propertyRepo.UpdateInventory(ctx, property); err != nil {
		uc.logger.Error("TransitionBooking: failed to update inventory of property=%s: %v", property.ID, err)
		return fmt.Errorf("%w: failed to update inventory: %w", ErrInternal, err)
	}

	uc.logger.Info("TransitionBooking: released %d slots on property=%s, available=%d/%d",
		occupants, property.ID, property.AvailableSlots, property.TotalSlots)
	return nil
}

func (uc *UseCase) record(action Action, result string) {
	if uc.recorder != nil {
		uc.recorder.RecordTransition(string(action), result)
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
