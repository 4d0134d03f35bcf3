package create_booking

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("create_booking: property not found")

	// ErrInsufficientInventory возвращается, когда свободных мест меньше, чем запрошено
	ErrInsufficientInventory = errors.New("create_booking: not enough slots available")

	// ErrUserBlocked возвращается, когда пользователь заблокирован владельцем объекта
	ErrUserBlocked = errors.New("create_booking: user is blocked from booking this property")

	// ErrActiveBookingExists возвращается, когда у пользователя уже есть pending/confirmed бронирование на объект
	ErrActiveBookingExists = errors.New("create_booking: user already has an active booking for this property")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrConflict возвращается, когда транзакция не прошла из-за конкурентных изменений за все попытки
	ErrConflict = errors.New("create_booking: concurrent update conflict, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
