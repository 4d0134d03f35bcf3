package submit_review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
)

func seed(t *testing.T, status domain.BookingStatus) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		ID:           "b1",
		UserID:       "u1",
		OwnerID:      "o1",
		PropertyID:   "p1",
		PropertyName: "Sunrise PG",
		UserName:     "Asha",
		Occupants:    1,
		Status:       status,
	})
	require.NoError(t, err)
	return NewUseCase(store.Bookings(), store.TxManager(), logger.Nop()), store
}

func TestExecute_Success(t *testing.T) {
	uc, store := seed(t, domain.StatusCompleted)

	resp, err := uc.Execute(context.Background(), &Request{BookingID: "b1", UserID: "u1", Text: "  Clean and quiet ", Rating: 5})
	require.NoError(t, err)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventNewReview, resp.Events[0].Type)
	assert.Equal(t, "o1", resp.Events[0].RecipientID)
	assert.Equal(t, "Asha left a review for Sunrise PG.", resp.Events[0].Message)

	stored, err := store.Bookings().GetByID(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, stored.Review)
	assert.Equal(t, "Clean and quiet", stored.Review.Text)
	assert.Equal(t, 5, stored.Review.Rating)
	assert.WithinDuration(t, time.Now(), stored.Review.CreatedAt, time.Minute)
}

func TestExecute_OnlyOnce(t *testing.T) {
	uc, _ := seed(t, domain.StatusCompleted)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{BookingID: "b1", UserID: "u1", Text: "first", Rating: 4})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{BookingID: "b1", UserID: "u1", Text: "second", Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		req     *Request
		wantErr error
	}{
		{name: "not completed", status: domain.StatusConfirmed, req: &Request{BookingID: "b1", UserID: "u1", Rating: 3}, wantErr: ErrInvalidState},
		{name: "not author", status: domain.StatusCompleted, req: &Request{BookingID: "b1", UserID: "o1", Rating: 3}, wantErr: ErrUnauthorized},
		{name: "not found", status: domain.StatusCompleted, req: &Request{BookingID: "nope", UserID: "u1", Rating: 3}, wantErr: ErrBookingNotFound},
		{name: "rating out of range", status: domain.StatusCompleted, req: &Request{BookingID: "b1", UserID: "u1", Rating: 0}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := seed(t, tt.status)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
