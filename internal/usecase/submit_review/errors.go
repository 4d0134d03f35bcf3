package submit_review

import "errors"

var (
	ErrBookingNotFound = errors.New("submit_review: booking not found")
	ErrUnauthorized    = errors.New("submit_review: only the booking user can review")
	ErrInvalidState    = errors.New("submit_review: booking is not completed")
	ErrAlreadyReviewed = errors.New("submit_review: booking already reviewed")
	ErrInvalidInput    = errors.New("submit_review: invalid input data")
	ErrConflict        = errors.New("submit_review: concurrent update conflict, please retry")
	ErrInternal        = errors.New("submit_review: internal error")
)
