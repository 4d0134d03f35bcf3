package submit_review

import (
	submitReview "github.com/m04kA/SMC-PGBookingService/internal/usecase/submit_review"
)

// SubmitReviewRequest HTTP request model
type SubmitReviewRequest struct {
	Text   string `json:"text" validate:"max=2000"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

func (r *SubmitReviewRequest) ToUseCaseRequest(bookingID, userID string) *submitReview.Request {
	return &submitReview.Request{
		BookingID: bookingID,
		UserID:    userID,
		Text:      r.Text,
		Rating:    r.Rating,
	}
}
