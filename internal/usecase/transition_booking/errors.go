package transition_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrUnauthorized возвращается, когда актор не владелец объекта или не автор бронирования
	ErrUnauthorized = errors.New("transition_booking: actor is not allowed to perform this transition")

	// ErrInvalidState возвращается, когда переход недопустим из текущего статуса
	ErrInvalidState = errors.New("transition_booking: transition not allowed from current status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrConflict возвращается, когда транзакция не прошла из-за конкурентных изменений за все попытки
	ErrConflict = errors.New("transition_booking: concurrent update conflict, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
