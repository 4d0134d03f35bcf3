package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		got = actor
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		userID     string
		role       string
		wantStatus int
		wantRole   domain.Role
	}{
		{name: "owner", userID: "o1", role: "owner", wantStatus: http.StatusNoContent, wantRole: domain.RoleOwner},
		{name: "role is case insensitive", userID: "a1", role: "ADMIN", wantStatus: http.StatusNoContent, wantRole: domain.RoleAdmin},
		{name: "default role", userID: "u1", wantStatus: http.StatusNoContent, wantRole: domain.RoleUser},
		{name: "missing user", role: "owner", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Actor{}
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				r.Header.Set(HeaderUserRole, tt.role)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.userID, got.ID)
				assert.Equal(t, tt.wantRole, got.Role)
			}
		})
	}
}

type httpRecord struct {
	method, route string
	status        int
}

type fakeRecorder struct{ records []httpRecord }

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.records = append(f.records, httpRecord{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(rec))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/b-42", nil))

	require.Len(t, rec.records, 1)
	assert.Equal(t, httpRecord{http.MethodGet, "/bookings/{bookingId}", http.StatusNotFound}, rec.records[0])
}
