package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	PropertyID      string          `json:"propertyId" validate:"required"`
	Occupants       int             `json:"occupants" validate:"omitempty,min=1"`
	UserName        string          `json:"userName"`
	RentAmount      decimal.Decimal `json:"rentAmount"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	CheckIn         *string         `json:"checkIn,omitempty"` // "2025-10-15"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Количество мест по умолчанию 1
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*createBooking.Request, error) {
	occupants := r.Occupants
	if occupants == 0 {
		occupants = domain.DefaultOccupants
	}

	var checkIn *time.Time
	if r.CheckIn != nil && *r.CheckIn != "" {
		t, err := time.Parse(domain.DateFormat, *r.CheckIn)
		if err != nil {
			return nil, err
		}
		checkIn = &t
	}

	return &createBooking.Request{
		UserID:          userID,
		UserName:        r.UserName,
		PropertyID:      r.PropertyID,
		Occupants:       occupants,
		RentAmount:      r.RentAmount,
		SecurityDeposit: r.SecurityDeposit,
		CheckIn:         checkIn,
	}, nil
}
