package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
	"github.com/m04kA/SMC-PGBookingService/pkg/txmanager"
)

const action = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	propertyRepo PropertyRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	recorder     TransitionRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case. recorder может быть nil
func NewUseCase(
	propertyRepo PropertyRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	recorder TransitionRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Чтение инвентаря, резервирование мест и вставка бронирования идут в одной транзакции под блокировкой строки объекта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%s, property=%s, occupants=%d", req.UserID, req.PropertyID, req.Occupants)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.record("invalid_input")
		return nil, err
	}

	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 2. Резервирование в транзакции, строка объекта блокируется FOR UPDATE
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем объект с блокировкой строки
		property, err := uc.propertyRepo.GetByID(txCtx, req.PropertyID)
		if err != nil {
			if errors.Is(err, propertyRepo.ErrPropertyNotFound) {
				uc.logger.Warn("CreateBooking: property id=%s not found", req.PropertyID)
				return ErrPropertyNotFound
			}
			uc.logger.Error("CreateBooking: failed to get property id=%s: %v", req.PropertyID, err)
			return fmt.Errorf("%w: failed to get property: %w", ErrInternal, err)
		}

		// 2.2. Не более одного активного бронирования на объект
		active, err := uc.bookingRepo.HasActive(txCtx, req.UserID, req.PropertyID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check active bookings: %v", err)
			return fmt.Errorf("%w: failed to check active bookings: %w", ErrInternal, err)
		}
		if active {
			uc.logger.Warn("CreateBooking: user=%s already has an active booking on property=%s",
				req.UserID, req.PropertyID)
			return ErrActiveBookingExists
		}

		// 2.3. Резервируем места
		if err := property.Reserve(req.UserID, req.Occupants); err != nil {
			switch {
			case errors.Is(err, domain.ErrUserBlocked):
				uc.logger.Warn("CreateBooking: user=%s is blocked on property=%s", req.UserID, req.PropertyID)
				return ErrUserBlocked
			case errors.Is(err, domain.ErrInsufficientSlots):
				uc.logger.Warn("CreateBooking: %v", err)
				return fmt.Errorf("%w: %v", ErrInsufficientInventory, err)
			case errors.Is(err, domain.ErrInvalidOccupants):
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: reserve: %w", ErrInternal, err)
		}

		if err := uc.propertyRepo.UpdateInventory(txCtx, property); err != nil {
			uc.logger.Error("CreateBooking: failed to update inventory of property=%s: %v", req.PropertyID, err)
			return fmt.Errorf("%w: failed to update inventory: %w", ErrInternal, err)
		}

		uc.logger.Info("CreateBooking: reserved %d slots on property=%s, available=%d/%d",
			req.Occupants, property.ID, property.AvailableSlots, property.TotalSlots)

		// 2.4. Создаем бронирование в pending, владелец должен подтвердить
		booking := &domain.Booking{
			ID:              uuid.NewString(),
			UserID:          req.UserID,
			OwnerID:         property.OwnerID,
			PropertyID:      property.ID,
			PropertyName:    property.Name,
			UserName:        req.UserName,
			Occupants:       req.Occupants,
			RentAmount:      req.RentAmount,
			SecurityDeposit: req.SecurityDeposit,
			TotalAmount:     req.RentAmount.Add(req.SecurityDeposit),
			CheckIn:         req.CheckIn,
			DueDate:         now.Add(domain.DueDatePeriod),
			Status:          domain.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrActiveBookingExists) {
				uc.logger.Warn("CreateBooking: active booking appeared concurrently for user=%s property=%s",
					req.UserID, req.PropertyID)
				return ErrActiveBookingExists
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrTxConflict) {
			uc.logger.Warn("CreateBooking: retry budget exhausted for property=%s: %v", req.PropertyID, err)
			uc.record("conflict")
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		uc.record(resultLabel(err))
		if !isBusinessError(err) && !errors.Is(err, ErrInternal) {
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)
	uc.record("ok")

	return &Response{
		Booking: result,
		Events:  []domain.Event{domain.NewBookingEvent(result, now)},
	}, nil
}

func (uc *UseCase) record(result string) {
	if uc.recorder != nil {
		uc.recorder.RecordTransition(action, result)
	}
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrPropertyNotFound) ||
		errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrUserBlocked) ||
		errors.Is(err, ErrActiveBookingExists) ||
		errors.Is(err, ErrInvalidInput)
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrPropertyNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, ErrUserBlocked):
		return "user_blocked"
	case errors.Is(err, ErrActiveBookingExists):
		return "active_exists"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
