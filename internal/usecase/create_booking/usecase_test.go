package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
	"github.com/m04kA/SMC-PGBookingService/pkg/txmanager"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, totalRooms, capacity, available int) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()

	p, err := domain.NewProperty("p1", "o1", "Sunrise PG", totalRooms, capacity)
	require.NoError(t, err)
	p.AvailableSlots = available
	p.OccupiedSlots = p.TotalSlots - available
	p.AvailableRooms, p.OccupiedRooms = domain.DeriveRooms(p.AvailableSlots, p.OccupiedSlots, capacity)
	require.NoError(t, store.Properties().Create(context.Background(), p))

	uc := NewUseCase(store.Properties(), store.Bookings(), store.TxManager(), nil, logger.Nop())
	uc.timeProvider = fixedTime{t: testNow}
	return uc, store
}

func request(userID string, occupants int) *Request {
	return &Request{
		UserID:          userID,
		UserName:        "Asha",
		PropertyID:      "p1",
		Occupants:       occupants,
		RentAmount:      decimal.NewFromInt(8000),
		SecurityDeposit: decimal.NewFromInt(2000),
	}
}

func TestExecute_ReservesSlotsAndCreatesPending(t *testing.T) {
	uc, store := setup(t, 2, 2, 4)

	resp, err := uc.Execute(context.Background(), request("u1", 2))
	require.NoError(t, err)

	b := resp.Booking
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, "o1", b.OwnerID)
	assert.Equal(t, "Sunrise PG", b.PropertyName)
	assert.True(t, decimal.NewFromInt(10000).Equal(b.TotalAmount))
	assert.Equal(t, testNow.Add(30*24*time.Hour), b.DueDate)

	p, err := store.Properties().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.AvailableSlots)
	assert.Equal(t, 2, p.OccupiedSlots)
	assert.Equal(t, 1, p.AvailableRooms)
	assert.Equal(t, 1, p.OccupiedRooms)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventNewBooking, resp.Events[0].Type)
	assert.Equal(t, "o1", resp.Events[0].RecipientID)
	assert.Equal(t, b.ID, resp.Events[0].BookingID)
}

func TestExecute_LargeGroupBoundOnlyByInventory(t *testing.T) {
	uc, store := setup(t, 10, 3, 30)

	resp, err := uc.Execute(context.Background(), request("u1", 21))
	require.NoError(t, err)
	assert.Equal(t, 21, resp.Booking.Occupants)

	p, err := store.Properties().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, p.AvailableSlots)

	_, err = uc.Execute(context.Background(), request("u2", 10))
	assert.ErrorIs(t, err, ErrInsufficientInventory)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, store *memory.Store)
		req     *Request
		wantErr error
	}{
		{
			name:    "property not found",
			req:     &Request{UserID: "u1", PropertyID: "missing", Occupants: 1},
			wantErr: ErrPropertyNotFound,
		},
		{
			name:    "insufficient inventory",
			req:     request("u1", 5),
			wantErr: ErrInsufficientInventory,
		},
		{
			name:    "zero occupants",
			req:     request("u1", 0),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing user",
			req:     request("", 1),
			wantErr: ErrInvalidInput,
		},
		{
			name: "negative rent",
			req: &Request{UserID: "u1", PropertyID: "p1", Occupants: 1,
				RentAmount: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidInput,
		},
		{
			name: "blocked user",
			prepare: func(t *testing.T, store *memory.Store) {
				p, err := domain.NewProperty("p1", "o1", "Sunrise PG", 2, 2)
				require.NoError(t, err)
				p.BlockedUsers = []string{"u1"}
				require.NoError(t, store.Properties().Create(context.Background(), p))
			},
			req:     request("u1", 1),
			wantErr: ErrUserBlocked,
		},
		{
			name: "second active booking",
			prepare: func(t *testing.T, store *memory.Store) {
				_, err := store.Bookings().Create(context.Background(), &domain.Booking{
					ID: "existing", UserID: "u1", PropertyID: "p1", Occupants: 1, Status: domain.StatusConfirmed,
				})
				require.NoError(t, err)
			},
			req:     request("u1", 1),
			wantErr: ErrActiveBookingExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store := setup(t, 2, 2, 4)
			if tt.prepare != nil {
				tt.prepare(t, store)
			}

			resp, err := uc.Execute(context.Background(), tt.req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)

			p, err := store.Properties().GetByID(context.Background(), "p1")
			require.NoError(t, err)
			assert.Equal(t, 4, p.AvailableSlots, "failed create must not touch inventory")
		})
	}
}

func TestExecute_LastSlotRace(t *testing.T) {
	uc, store := setup(t, 2, 2, 1)

	var (
		wg      sync.WaitGroup
		errs    = make([]error, 2)
		barrier = make(chan struct{})
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-barrier
			_, errs[i] = uc.Execute(context.Background(), request(fmt.Sprintf("u%d", i), 1))
		}(i)
	}
	close(barrier)
	wg.Wait()

	succeeded, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientInventory):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	p, err := store.Properties().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.AvailableSlots)
	assert.NoError(t, p.CheckInvariants())
}

func TestExecute_NoOversellUnderConcurrency(t *testing.T) {
	const slots = 12
	uc, store := setup(t, slots, 1, slots)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < slots+1; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), request(fmt.Sprintf("user-%d", i), 1))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, ErrInsufficientInventory) {
				insufficient++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, slots, succeeded)
	assert.Equal(t, 1, insufficient)

	p, err := store.Properties().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.AvailableSlots)
	assert.Equal(t, slots, p.OccupiedSlots)
}

type conflictTx struct{}

func (conflictTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: 6 attempts", txmanager.ErrTxConflict)
}

func TestExecute_RetryBudgetExhausted(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(store.Properties(), store.Bookings(), conflictTx{}, nil, logger.Nop())

	_, err := uc.Execute(context.Background(), request("u1", 1))
	assert.ErrorIs(t, err, ErrConflict)
}

type recorder struct{ results []string }

func (r *recorder) RecordTransition(action, result string) {
	r.results = append(r.results, action+":"+result)
}

func TestExecute_RecordsOutcome(t *testing.T) {
	uc, _ := setup(t, 1, 1, 1)
	rec := &recorder{}
	uc.recorder = rec

	_, err := uc.Execute(context.Background(), request("u1", 1))
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), request("u2", 1))
	require.Error(t, err)

	assert.Equal(t, []string{"create:ok", "create:insufficient_inventory"}, rec.results)
}
