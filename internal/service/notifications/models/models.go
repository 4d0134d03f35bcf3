package models

import (
	"time"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// NotificationResponse уведомление для клиента
type NotificationResponse struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	BookingID  string     `json:"bookingId,omitempty"`
	PropertyID string     `json:"propertyId,omitempty"`
	IsRead     bool       `json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NotificationListResponse список уведомлений пользователя
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

func FromDomainNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		BookingID:  n.BookingID,
		PropertyID: n.PropertyID,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

func FromDomainNotificationList(list []*domain.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
	}
	for _, n := range list {
		if !n.IsRead {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, FromDomainNotification(n))
	}
	return resp
}
