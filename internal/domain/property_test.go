package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	p, err := NewProperty("p1", "o1", "Sunrise PG", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 4, p.TotalSlots)
	assert.Equal(t, 4, p.AvailableSlots)
	assert.Equal(t, 0, p.OccupiedSlots)
	assert.Equal(t, 2, p.AvailableRooms)
	assert.Equal(t, 0, p.OccupiedRooms)
	assert.NoError(t, p.CheckInvariants())

	_, err = NewProperty("p2", "o1", "Bad", 2, 0)
	assert.ErrorIs(t, err, ErrInvalidInventory)
}

func TestProperty_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		available int
		blocked   []string
		occupants int
		wantErr   error
		wantAvail int
	}{
		{name: "fits", available: 4, occupants: 2, wantAvail: 2},
		{name: "exact last slots", available: 2, occupants: 2, wantAvail: 0},
		{name: "insufficient", available: 1, occupants: 2, wantErr: ErrInsufficientSlots, wantAvail: 1},
		{name: "zero occupants", available: 4, occupants: 0, wantErr: ErrInvalidOccupants, wantAvail: 4},
		{name: "blocked user", available: 4, blocked: []string{"u1"}, occupants: 1, wantErr: ErrUserBlocked, wantAvail: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProperty("p1", "o1", "PG", 2, 2)
			require.NoError(t, err)
			p.AvailableSlots = tt.available
			p.OccupiedSlots = p.TotalSlots - tt.available
			p.BlockedUsers = tt.blocked

			err = p.Reserve("u1", tt.occupants)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAvail, p.AvailableSlots)
			assert.NoError(t, p.CheckInvariants())
		})
	}
}

func TestProperty_Release(t *testing.T) {
	p, err := NewProperty("p1", "o1", "PG", 2, 2)
	require.NoError(t, err)
	require.NoError(t, p.Reserve("u1", 3))

	assert.ErrorIs(t, p.Release(4), ErrReleaseExceedsOccupied)
	assert.Equal(t, 1, p.AvailableSlots)

	require.NoError(t, p.Release(3))
	assert.Equal(t, 4, p.AvailableSlots)
	assert.Equal(t, 0, p.OccupiedSlots)
	assert.Equal(t, 2, p.AvailableRooms)
	assert.Equal(t, 0, p.OccupiedRooms)

	assert.ErrorIs(t, p.Release(0), ErrInvalidOccupants)
}

func TestDeriveRooms(t *testing.T) {
	tests := []struct {
		available, occupied, capacity int
		wantAvail, wantOcc            int
	}{
		{available: 4, occupied: 0, capacity: 2, wantAvail: 2, wantOcc: 0},
		{available: 3, occupied: 1, capacity: 2, wantAvail: 1, wantOcc: 1},
		{available: 2, occupied: 2, capacity: 2, wantAvail: 1, wantOcc: 1},
		{available: 0, occupied: 5, capacity: 3, wantAvail: 0, wantOcc: 2},
		{available: 7, occupied: 0, capacity: 1, wantAvail: 7, wantOcc: 0},
		{available: 1, occupied: 1, capacity: 0, wantAvail: 1, wantOcc: 1},
	}

	for _, tt := range tests {
		gotAvail, gotOcc := DeriveRooms(tt.available, tt.occupied, tt.capacity)
		assert.Equal(t, tt.wantAvail, gotAvail, "available rooms for %+v", tt)
		assert.Equal(t, tt.wantOcc, gotOcc, "occupied rooms for %+v", tt)
	}
}

func TestProperty_CheckInvariants(t *testing.T) {
	p, err := NewProperty("p1", "o1", "PG", 1, 2)
	require.NoError(t, err)

	p.AvailableSlots = 1
	assert.ErrorIs(t, p.CheckInvariants(), ErrInvalidInventory)

	p.AvailableSlots = -1
	p.OccupiedSlots = 3
	assert.ErrorIs(t, p.CheckInvariants(), ErrInvalidInventory)
}
