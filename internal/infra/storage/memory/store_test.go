package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/booking"
	notificationRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/notification"
	propertyRepo "github.com/m04kA/SMC-PGBookingService/internal/infra/storage/property"
)

func seedProperty(t *testing.T, s *Store) *domain.Property {
	t.Helper()
	p, err := domain.NewProperty("p1", "o1", "Sunrise PG", 2, 2)
	require.NoError(t, err)
	require.NoError(t, s.Properties().Create(context.Background(), p))
	return p
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	s := NewStore()
	seedProperty(t, s)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := s.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		p, err := s.Properties().GetByID(txCtx, "p1")
		require.NoError(t, err)
		require.NoError(t, p.Reserve("u1", 2))
		require.NoError(t, s.Properties().UpdateInventory(txCtx, p))

		_, err = s.Bookings().Create(txCtx, &domain.Booking{ID: "b1", UserID: "u1", PropertyID: "p1", Status: domain.StatusPending})
		require.NoError(t, err)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	p, err := s.Properties().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.AvailableSlots)

	_, err = s.Bookings().GetByID(ctx, "b1")
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestTxManager_RollsBackOnPanic(t *testing.T) {
	s := NewStore()
	seedProperty(t, s)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.TxManager().Do(ctx, func(txCtx context.Context) error {
			p, _ := s.Properties().GetByID(txCtx, "p1")
			_ = p.Reserve("u1", 1)
			_ = s.Properties().UpdateInventory(txCtx, p)
			panic("boom")
		})
	})

	p, err := s.Properties().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.AvailableSlots)
}

func TestTxManager_NestedCallDoesNotDeadlock(t *testing.T) {
	s := NewStore()
	tm := s.TxManager()

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		return tm.DoSerializable(ctx, func(ctx context.Context) error {
			_, err := s.Properties().GetByID(ctx, "missing")
			return err
		})
	})
	assert.ErrorIs(t, err, propertyRepo.ErrPropertyNotFound)
}

func TestPropertyRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	seedProperty(t, s)
	ctx := context.Background()

	p, err := s.Properties().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.AvailableSlots = 0

	again, err := s.Properties().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, again.AvailableSlots)
}

func TestPropertyRepository_UpdateInventoryRejectsBrokenInvariant(t *testing.T) {
	s := NewStore()
	p := seedProperty(t, s)

	p.AvailableSlots = 3
	err := s.Properties().UpdateInventory(context.Background(), p)
	assert.ErrorIs(t, err, propertyRepo.ErrInventoryInvariant)
}

func TestBookingRepository_ActiveUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Bookings()

	_, err := repo.Create(ctx, &domain.Booking{ID: "b1", UserID: "u1", PropertyID: "p1", Status: domain.StatusPending})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Booking{ID: "b2", UserID: "u1", PropertyID: "p1", Status: domain.StatusPending})
	assert.ErrorIs(t, err, bookingRepo.ErrActiveBookingExists)

	b, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	b.Status = domain.StatusCancelled
	require.NoError(t, repo.Update(ctx, b))

	_, err = repo.Create(ctx, &domain.Booking{ID: "b3", UserID: "u1", PropertyID: "p1", Status: domain.StatusPending})
	assert.NoError(t, err)
}

func TestBookingRepository_ListNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Bookings()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"b1", "b2", "b3"} {
		_, err := repo.Create(ctx, &domain.Booking{
			ID:         id,
			UserID:     "u1",
			OwnerID:    "o1",
			PropertyID: id,
			Status:     domain.StatusPending,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx, domain.BookingsFilter{OwnerID: "o1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b3", list[0].ID)
	assert.Equal(t, "b1", list[2].ID)

	confirmed := domain.StatusConfirmed
	list, err = repo.List(ctx, domain.BookingsFilter{UserID: "u1", Status: &confirmed})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationRepository(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Notifications()

	event := domain.Event{ID: "n1", Type: domain.EventNewBooking, RecipientID: "o1", CreatedAt: time.Now()}
	require.NoError(t, repo.Deliver(ctx, event))
	require.NoError(t, repo.Deliver(ctx, event))

	list, err := repo.ListByUser(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)

	require.NoError(t, repo.MarkRead(ctx, "n1", time.Now()))
	n, err := repo.GetByID(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.NotNil(t, n.ReadAt)

	assert.ErrorIs(t, repo.MarkRead(ctx, "missing", time.Now()), notificationRepo.ErrNotificationNotFound)
}
