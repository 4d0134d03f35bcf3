package inventory

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("inventory.service: property not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("inventory.service: internal error")
)
