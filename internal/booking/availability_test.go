package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-16"

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 16, hour, minute, 0, 0, time.UTC)
}

func TestSlotsGrid(t *testing.T) {
	slots := Slots("R1", day, nil)

	require.Len(t, slots, SlotsPerDay)
	require.Len(t, slots, 13)

	for i, slot := range slots {
		assert.Equal(t, fmt.Sprintf("%02d:00", 9+i), slot.StartTime)
		assert.Equal(t, fmt.Sprintf("%02d:00", 10+i), slot.EndTime)
		assert.True(t, slot.Available)

		if i > 0 {
			assert.Equal(t, slots[i-1].EndTime, slot.StartTime)
		}
	}

	assert.Equal(t, "21:00", slots[len(slots)-1].StartTime)
}

func TestSlotsMarksOnlyMatchingNonCancelledBookings(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", RoomID: "R1", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming},
		{ID: "b2", RoomID: "R1", Date: day, StartTime: "10:00", EndTime: "11:00", Status: StatusCancelled},
		{ID: "b3", RoomID: "R2", Date: day, StartTime: "11:00", EndTime: "12:00", Status: StatusUpcoming},
		{ID: "b4", RoomID: "R1", Date: "2026-10-17", StartTime: "12:00", EndTime: "13:00", Status: StatusUpcoming},
		{ID: "b5", RoomID: "R1", Date: day, StartTime: "20:00", EndTime: "21:00", Status: StatusPast},
	}

	unavailable := map[string]bool{}

	for _, slot := range Slots("R1", day, bookings) {
		if !slot.Available {
			unavailable[slot.StartTime] = true
		}
	}

	assert.Equal(t, map[string]bool{"14:00": true, "20:00": true}, unavailable)
}

func TestSlotsDoubleBookedSlotStaysUnavailableUntilBothCancelled(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", RoomID: "R1", Date: day, StartTime: "14:00", Status: StatusUpcoming},
		{ID: "b2", RoomID: "R1", Date: day, StartTime: "14:00", Status: StatusUpcoming},
	}

	bookings[0].Status = StatusCancelled
	assert.False(t, Slots("R1", day, bookings)[5].Available)

	bookings[1].Status = StatusCancelled
	assert.True(t, Slots("R1", day, bookings)[5].Available)
}

func TestSlotsIsIdempotent(t *testing.T) {
	bookings := []Booking{{RoomID: "R1", Date: day, StartTime: "09:00", Status: StatusUpcoming}}

	assert.Equal(t, Slots("R1", day, bookings), Slots("R1", day, bookings))
}

func TestLiveStatusHalfOpenWindow(t *testing.T) {
	room := Room{ID: "R1", Status: RoomEmpty}
	bookings := []Booking{
		{ID: "b1", RoomID: "R1", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming},
	}

	cases := []struct {
		name string
		at   time.Time
		want RoomStatus
	}{
		{"before start", at(13, 59), RoomEmpty},
		{"at start", at(14, 0), RoomOccupied},
		{"inside", at(14, 30), RoomOccupied},
		{"last second", at(14, 59).Add(59 * time.Second), RoomOccupied},
		{"at end", at(15, 0), RoomEmpty},
		{"after end", at(15, 30), RoomEmpty},
		{"other day", at(14, 30).AddDate(0, 0, 1), RoomEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LiveStatus(room, bookings, tc.at))
		})
	}
}

func TestLiveStatusKeepsBaselineAndIgnoresOtherRooms(t *testing.T) {
	bookings := []Booking{
		{RoomID: "R2", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming},
		{RoomID: "R1", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusCancelled},
	}

	assert.Equal(t, RoomBags, LiveStatus(Room{ID: "R1", Status: RoomBags}, bookings, at(14, 30)))
	assert.Equal(t, RoomOccupied, LiveStatus(Room{ID: "R2", Status: RoomBags}, bookings, at(14, 30)))
}

func TestLiveStatusUsesInstantLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	room := Room{ID: "R1", Status: RoomEmpty}
	bookings := []Booking{{RoomID: "R1", Date: day, StartTime: "20:00", EndTime: "21:00", Status: StatusUpcoming}}

	// 01:30 UTC on the 17th is 20:30 on the 16th at UTC-5.
	instant := time.Date(2026, 10, 17, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, RoomEmpty, LiveStatus(room, bookings, instant))
	assert.Equal(t, RoomOccupied, LiveStatus(room, bookings, instant.In(loc)))
}

func TestActiveBookingFirstMatchWins(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", RoomID: "R1", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming},
		{ID: "b2", RoomID: "R1", Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming},
	}

	active := ActiveBooking("R1", bookings, at(14, 10))
	require.NotNil(t, active)
	assert.Equal(t, "b1", active.ID)

	assert.Nil(t, ActiveBooking("R1", bookings, at(16, 0)))
}

func TestEffectiveStatus(t *testing.T) {
	upcoming := Booking{Date: day, StartTime: "14:00", EndTime: "15:00", Status: StatusUpcoming}

	assert.Equal(t, StatusUpcoming, EffectiveStatus(upcoming, at(14, 59)))
	assert.Equal(t, StatusPast, EffectiveStatus(upcoming, at(15, 0)))
	assert.Equal(t, StatusPast, EffectiveStatus(upcoming, at(9, 0).AddDate(0, 0, 1)))

	cancelled := upcoming
	cancelled.Status = StatusCancelled
	assert.Equal(t, StatusCancelled, EffectiveStatus(cancelled, at(20, 0)))
}
