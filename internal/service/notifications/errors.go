package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notifications.service: notification not found")
	ErrAccessDenied         = errors.New("notifications.service: access denied")
	ErrInternal             = errors.New("notifications.service: internal error")
)
