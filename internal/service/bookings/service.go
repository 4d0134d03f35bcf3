package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PGBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	stayRepo    StayHistoryRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	stayRepo StayHistoryRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		stayRepo:    stayRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут его автор, владелец объекта и администратор
func (s *Service) GetByID(ctx context.Context, id string, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for actor=%s", id, actor.ID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanView(booking) {
		s.logger.Warn("GetByID: access denied for actor=%s to booking id=%s", actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings бронирования пользователя, новые первыми
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if err := checkSelfAccess(req.Actor, req.UserID); err != nil {
		s.logger.Warn("GetUserBookings: access denied for actor=%s to user=%s", req.Actor.ID, req.UserID)
		return nil, err
	}

	return s.list(ctx, "GetUserBookings", domain.BookingsFilter{UserID: req.UserID}, req.Status)
}

// GetOwnerBookings бронирования по объектам владельца, новые первыми
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetOwnerBookings: fetching bookings for owner=%s, status=%v", req.OwnerID, req.Status)

	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}
	if err := checkSelfAccess(req.Actor, req.OwnerID); err != nil {
		s.logger.Warn("GetOwnerBookings: access denied for actor=%s to owner=%s", req.Actor.ID, req.OwnerID)
		return nil, err
	}

	return s.list(ctx, "GetOwnerBookings", domain.BookingsFilter{OwnerID: req.OwnerID}, req.Status)
}

// GetStayHistory завершенные проживания пользователя, новые первыми
func (s *Service) GetStayHistory(ctx context.Context, userID string, actor domain.Actor) (*models.StayHistoryResponse, error) {
	s.logger.Info("GetStayHistory: fetching stay history for user=%s", userID)

	if err := checkSelfAccess(actor, userID); err != nil {
		s.logger.Warn("GetStayHistory: access denied for actor=%s to user=%s", actor.ID, userID)
		return nil, err
	}

	entries, err := s.stayRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetStayHistory: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetStayHistory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStayHistory(entries), nil
}

func (s *Service) list(ctx context.Context, op string, filter domain.BookingsFilter, status *string) (*models.BookingListResponse, error) {
	if status != nil && *status != "" {
		domainStatus, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			s.logger.Warn("%s: invalid status=%s", op, *status)
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *status)
		}
		filter.Status = &domainStatus
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings", op, len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// checkSelfAccess доступ к чужим спискам есть только у администратора
func checkSelfAccess(actor domain.Actor, subjectID string) error {
	if actor.IsAdmin() || actor.ID == subjectID {
		return nil
	}
	return ErrAccessDenied
}
