package booking

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	firstSlotHour = 9
	lastSlotHour  = 21
)

// SlotsPerDay is the size of the fixed daily grid, identical for every room and date.
const SlotsPerDay = lastSlotHour - firstSlotHour + 1

// Slots builds the daily grid for roomID on date. A slot is unavailable iff a
// non-cancelled booking matches the room, the date and the slot start time.
// The room is not checked for existence.
func Slots(roomID, date string, bookings []Booking) []TimeSlot {
	booked := make(map[string]struct{})

	for _, b := range bookings {
		if b.RoomID != roomID || b.Date != date || b.Status == StatusCancelled {
			continue
		}

		booked[b.StartTime] = struct{}{}
	}

	slots := make([]TimeSlot, 0, SlotsPerDay)

	for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
		start := fmt.Sprintf("%02d:00", hour)
		_, taken := booked[start]

		slots = append(slots, TimeSlot{
			StartTime: start,
			EndTime:   fmt.Sprintf("%02d:00", hour+1),
			Available: !taken,
		})
	}

	return slots
}

// LiveStatus overlays any booking active at the given instant on top of the
// room's baseline status. The day and clock times are taken in at's location.
func LiveStatus(room Room, bookings []Booking, at time.Time) RoomStatus {
	if ActiveBooking(room.ID, bookings, at) != nil {
		return RoomOccupied
	}

	return room.Status
}

// ActiveBooking returns the first non-cancelled booking of the room whose
// [start, end) window on today's date contains at, or nil.
func ActiveBooking(roomID string, bookings []Booking, at time.Time) *Booking {
	today := at.Format(DateLayout)
	day := now.With(at)

	for i := range bookings {
		b := &bookings[i]

		if b.RoomID != roomID || b.Date != today || b.Status == StatusCancelled {
			continue
		}

		start, err := day.Parse(b.StartTime)
		if err != nil {
			continue
		}

		end, err := day.Parse(b.EndTime)
		if err != nil {
			continue
		}

		if !at.Before(start) && at.Before(end) {
			return b
		}
	}

	return nil
}

// EffectiveStatus derives "past" for an upcoming booking whose end is not
// after at. Stored status is left as is.
func EffectiveStatus(b Booking, at time.Time) Status {
	if b.Status != StatusUpcoming {
		return b.Status
	}

	end, err := now.With(at).Parse(b.Date + " " + b.EndTime)
	if err != nil {
		return b.Status
	}

	if !end.After(at) {
		return StatusPast
	}

	return b.Status
}
