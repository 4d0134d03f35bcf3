package domain

import "errors"

// Ошибки инвентаря
var (
	ErrInvalidOccupants       = errors.New("domain: occupants must be at least 1")
	ErrUserBlocked            = errors.New("domain: user is blocked from booking this property")
	ErrInsufficientSlots      = errors.New("domain: not enough slots available")
	ErrReleaseExceedsOccupied = errors.New("domain: release exceeds occupied slots")
	ErrInvalidInventory       = errors.New("domain: inventory invariant violated")
)

// Ошибки жизненного цикла бронирования
var (
	ErrNotOwner          = errors.New("domain: actor is not the property owner")
	ErrNotBookingUser    = errors.New("domain: actor is not the booking user")
	ErrInvalidTransition = errors.New("domain: transition not allowed from current status")
	ErrAlreadyReviewed   = errors.New("domain: booking already has a review")
	ErrInvalidRating     = errors.New("domain: rating must be between 1 and 5")
)
