package domain

import "time"

// Параметры бронирования
const (
	DefaultOccupants = 1

	// Срок первого платежа от момента создания заявки
	DueDatePeriod = 30 * 24 * time.Hour
)

// Ограничения отзыва
const (
	MinRating           = 1
	MaxRating           = 5
	MaxReviewTextLength = 2000
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, в которых бронирование удерживает места
// Пользователь может иметь не более одного такого бронирования на объект
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses конечные статусы, переходов из них нет
var TerminalStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}
