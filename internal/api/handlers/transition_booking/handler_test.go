package transition_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PGBookingService/internal/domain"
	"github.com/m04kA/SMC-PGBookingService/internal/infra/storage/memory"
	createBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/create_booking"
	transitionBooking "github.com/m04kA/SMC-PGBookingService/internal/usecase/transition_booking"
	"github.com/m04kA/SMC-PGBookingService/pkg/logger"
)

type captureDispatcher struct{ events []domain.Event }

func (c *captureDispatcher) Dispatch(events ...domain.Event) {
	c.events = append(c.events, events...)
}

type fixture struct {
	router     *mux.Router
	store      *memory.Store
	dispatcher *captureDispatcher
	bookingID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	p, err := domain.NewProperty("p1", "o1", "Sunrise PG", 2, 2)
	require.NoError(t, err)
	require.NoError(t, store.Properties().Create(ctx, p))

	created, err := createBooking.NewUseCase(store.Properties(), store.Bookings(), store.TxManager(), nil, logger.Nop()).
		Execute(ctx, &createBooking.Request{UserID: "u1", PropertyID: "p1", Occupants: 2})
	require.NoError(t, err)

	uc := transitionBooking.NewUseCase(store.Bookings(), store.Properties(), store.StayHistory(), store.TxManager(), nil, logger.Nop())
	dispatcher := &captureDispatcher{}
	h := NewHandler(uc, dispatcher, logger.Nop())

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/bookings/{bookingId}/accept", h.Accept).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{bookingId}/reject", h.Reject).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{bookingId}/cancel", h.Cancel).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{bookingId}/complete", h.Complete).Methods(http.MethodPatch)

	return &fixture{router: r, store: store, dispatcher: dispatcher, bookingID: created.Booking.ID}
}

func (f *fixture) patch(bookingID, action, userID, role string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPatch, "/bookings/"+bookingID+"/"+action, nil)
	r.Header.Set(middleware.HeaderUserID, userID)
	r.Header.Set(middleware.HeaderUserRole, role)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func TestLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)

	w := f.patch(f.bookingID, "accept", "o1", "owner")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.patch(f.bookingID, "complete", "u1", "user")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TransitionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "completed", resp.Booking.Status)
	assert.Equal(t, 2, resp.ReleasedSlots)
	assert.NotNil(t, resp.Booking.CheckOut)

	require.Len(t, f.dispatcher.events, 3)
	assert.Equal(t, domain.EventBookingAccepted, f.dispatcher.events[0].Type)

	p, err := f.store.Properties().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.AvailableSlots)
}

func TestTransitionErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusForbidden, f.patch(f.bookingID, "accept", "u1", "user").Code)
	assert.Equal(t, http.StatusNotFound, f.patch("missing", "accept", "o1", "owner").Code)
	assert.Equal(t, http.StatusConflict, f.patch(f.bookingID, "complete", "u1", "user").Code)

	require.Equal(t, http.StatusOK, f.patch(f.bookingID, "reject", "o1", "owner").Code)
	assert.Equal(t, http.StatusConflict, f.patch(f.bookingID, "cancel", "u1", "user").Code)
	assert.Len(t, f.dispatcher.events, 1)
}
