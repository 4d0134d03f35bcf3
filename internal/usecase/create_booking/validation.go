package create_booking

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PropertyID) == "" {
		return fmt.Errorf("%w: propertyID is required", ErrInvalidInput)
	}

	if req.Occupants < 1 {
		return fmt.Errorf("%w: occupants must be positive", ErrInvalidInput)
	}

	if req.RentAmount.IsNegative() {
		return fmt.Errorf("%w: rentAmount must not be negative", ErrInvalidInput)
	}

	if req.SecurityDeposit.IsNegative() {
		return fmt.Errorf("%w: securityDeposit must not be negative", ErrInvalidInput)
	}

	return nil
}
