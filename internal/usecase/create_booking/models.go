package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID          string          // ID пользователя от шлюза идентификации
	UserName        string          // Имя для уведомлений владельцу
	PropertyID      string          // ID объекта
	Occupants       int             // Количество мест
	RentAmount      decimal.Decimal // Ежемесячная плата
	SecurityDeposit decimal.Decimal // Залог
	CheckIn         *time.Time      // Планируемая дата заезда (опционально)
}

// Response созданное бронирование и события для доставки после фиксации
type Response struct {
	Booking *domain.Booking
	Events  []domain.Event
}
