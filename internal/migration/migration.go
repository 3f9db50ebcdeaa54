package migration

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avstrong/roomdash/internal/booking"
	"github.com/avstrong/roomdash/internal/logger"
)

//go:embed seed.yaml
var defaultSeed []byte

var ErrInvalidSeed = errors.New("invalid seed")

type storage interface {
	SaveRooms(ctx context.Context, rooms []booking.Room) error
	SaveUser(ctx context.Context, user booking.User) error
	SaveBooking(ctx context.Context, b booking.Booking, idempotencyKey string) (booking.Booking, error)
}

type Seed struct {
	User     booking.User   `yaml:"user"`
	Rooms    []booking.Room `yaml:"rooms"`
	Bookings []SeedBooking  `yaml:"bookings"`
}

type SeedBooking struct {
	ID        string `yaml:"id"`
	RoomID    string `yaml:"room_id"`
	DayOffset int    `yaml:"day_offset"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
}

type Conf struct {
	// File overrides the embedded seed when set.
	File string
	// Today anchors day_offset and stamps rooms' LastUpdated.
	Today time.Time
}

func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file %v: %w", path, err)
		}

		data = raw
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var seed Seed
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}

	return &seed, nil
}

func (s *Seed) validate() error {
	rooms := make(map[string]struct{}, len(s.Rooms))

	for _, room := range s.Rooms {
		if room.ID == "" {
			return fmt.Errorf("room %q has no id: %w", room.Name, ErrInvalidSeed)
		}

		if _, dup := rooms[room.ID]; dup {
			return fmt.Errorf("room %v is declared twice: %w", room.ID, ErrInvalidSeed)
		}

		if room.Capacity <= 0 {
			return fmt.Errorf("room %v capacity must be positive: %w", room.ID, ErrInvalidSeed)
		}

		if !room.Status.Valid() {
			return fmt.Errorf("room %v has unknown status %q: %w", room.ID, room.Status, ErrInvalidSeed)
		}

		rooms[room.ID] = struct{}{}
	}

	for i, b := range s.Bookings {
		if _, ok := rooms[b.RoomID]; !ok {
			return fmt.Errorf("booking %v references unknown room %v: %w", b.ID, b.RoomID, ErrInvalidSeed)
		}

		start, err := time.Parse(booking.ClockLayout, b.StartTime)
		if err != nil {
			return fmt.Errorf("booking %v start_time %q must match HH:MM: %w", b.ID, b.StartTime, ErrInvalidSeed)
		}

		end, err := time.Parse(booking.ClockLayout, b.EndTime)
		if err != nil {
			return fmt.Errorf("booking %v end_time %q must match HH:MM: %w", b.ID, b.EndTime, ErrInvalidSeed)
		}

		if !end.After(start) {
			return fmt.Errorf("booking %v must end after it starts: %w", b.ID, ErrInvalidSeed)
		}

		// "9:00" has to land on the 09:00 slot like a created booking does.
		s.Bookings[i].StartTime = start.Format(booking.ClockLayout)
		s.Bookings[i].EndTime = end.Format(booking.ClockLayout)
	}

	return nil
}

// Up fills an empty store with the seed rooms, the mock user and the seed bookings.
func Up(ctx context.Context, l *logger.Logger, storage storage, conf Conf) error {
	seed, err := LoadSeed(conf.File)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	rooms := make([]booking.Room, 0, len(seed.Rooms))
	byID := make(map[string]booking.Room, len(seed.Rooms))

	for _, room := range seed.Rooms {
		room.LastUpdated = conf.Today
		rooms = append(rooms, room)
		byID[room.ID] = room
	}

	if err := storage.SaveRooms(ctx, rooms); err != nil {
		return fmt.Errorf("save rooms to storage: %w", err)
	}

	if err := storage.SaveUser(ctx, seed.User); err != nil {
		return fmt.Errorf("save user to storage: %w", err)
	}

	for _, sb := range seed.Bookings {
		room := byID[sb.RoomID]

		if _, err := storage.SaveBooking(ctx, booking.Booking{
			ID:         sb.ID,
			RoomID:     room.ID,
			RoomName:   room.Name,
			RoomNumber: room.RoomNumber,
			Date:       conf.Today.AddDate(0, 0, sb.DayOffset).Format(booking.DateLayout),
			StartTime:  sb.StartTime,
			EndTime:    sb.EndTime,
			Status:     booking.StatusUpcoming,
		}, ""); err != nil {
			return fmt.Errorf("save seed booking %v to storage: %w", sb.ID, err)
		}
	}

	l.LogInfo("Seeded %d rooms and %d bookings", len(rooms), len(seed.Bookings))

	return nil
}
