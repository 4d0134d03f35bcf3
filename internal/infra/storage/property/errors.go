package property

import "errors"

var (
	// ErrPropertyNotFound возвращается, когда объект не найден
	ErrPropertyNotFound = errors.New("property.repository: property not found")

	// ErrInventoryInvariant возвращается при попытке сохранить несогласованный инвентарь
	ErrInventoryInvariant = errors.New("property.repository: inventory invariant violated")

	ErrBuildQuery = errors.New("property.repository: failed to build query")
	ErrExecQuery  = errors.New("property.repository: failed to execute query")
	ErrScanRow    = errors.New("property.repository: failed to scan row")
)
