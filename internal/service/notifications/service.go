package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-PGBookingService/internal/service/notifications/models"
)

type Service struct {
	repo   NotificationRepository
	now    func() time.Time
	logger Logger
}

func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// List уведомления пользователя, новые первыми
func (s *Service) List(ctx context.Context, userID string, actor domain.Actor) (*models.NotificationListResponse, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		s.logger.Warn("List: access denied for actor=%s to notifications of user=%s", actor.ID, userID)
		return nil, ErrAccessDenied
	}

	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainNotificationList(list), nil
}

// MarkRead отмечает уведомление прочитанным; только получатель
// Повторная отметка не меняет время прочтения
func (s *Service) MarkRead(ctx context.Context, notificationID string, actor domain.Actor) (*models.NotificationResponse, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%s not found", notificationID)
			return nil, ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%s: %v", notificationID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	if n.RecipientID != actor.ID {
		s.logger.Warn("MarkRead: actor=%s is not the recipient of notification id=%s", actor.ID, notificationID)
		return nil, ErrAccessDenied
	}

	if n.IsRead {
		resp := models.FromDomainNotification(n)
		return &resp, nil
	}

	readAt := s.now()
	if err := s.repo.MarkRead(ctx, notificationID, readAt); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: failed to mark notification id=%s: %v", notificationID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	n.IsRead = true
	n.ReadAt = &readAt
	s.logger.Info("MarkRead: notification id=%s marked as read by user=%s", notificationID, actor.ID)

	resp := models.FromDomainNotification(n)
	return &resp, nil
}
