package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/avstrong/roomdash/internal/booking"
	"github.com/avstrong/roomdash/internal/logger"
)

type Config struct {
	L *logger.Logger
}

// DB is the process-wide room directory and booking ledger. Every method is
// one atomic step under mu. Values are copied in and out.
type DB struct {
	mu              sync.Mutex
	l               *logger.Logger
	rooms           []booking.Room
	roomIdx         map[string]int
	bookings        []booking.Booking
	bookingIdx      map[string]int
	idempotencyKeys map[string]string
	currentUser     *booking.User
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:               conf.L,
		roomIdx:         make(map[string]int),
		bookingIdx:      make(map[string]int),
		idempotencyKeys: make(map[string]string),
	}
}

// SaveRooms inserts new rooms in order and replaces rooms with a known id in place.
func (db *DB) SaveRooms(_ context.Context, rooms []booking.Room) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, room := range rooms {
		if room.ID == "" {
			return fmt.Errorf("save room %q: %w", room.Name, ErrEmptyID)
		}

		if idx, ok := db.roomIdx[room.ID]; ok {
			db.rooms[idx] = room

			continue
		}

		db.roomIdx[room.ID] = len(db.rooms)
		db.rooms = append(db.rooms, room)
	}

	return nil
}

func (db *DB) GetRooms(_ context.Context) ([]booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return append(make([]booking.Room, 0, len(db.rooms)), db.rooms...), nil
}

func (db *DB) GetRoom(_ context.Context, id string) (booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx, ok := db.roomIdx[id]
	if !ok {
		return booking.Room{}, booking.ErrRecordNotFound
	}

	return db.rooms[idx], nil
}

func (db *DB) SaveBooking(_ context.Context, b booking.Booking, idempotencyKey string) (booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if idempotencyKey != "" {
		if id, ok := db.idempotencyKeys[idempotencyKey]; ok {
			return db.bookings[db.bookingIdx[id]], nil
		}
	}

	if b.ID == "" {
		return booking.Booking{}, ErrEmptyID
	}

	if _, ok := db.bookingIdx[b.ID]; ok {
		return booking.Booking{}, fmt.Errorf("save booking %v: %w", b.ID, ErrDuplicateID)
	}

	db.bookingIdx[b.ID] = len(db.bookings)
	db.bookings = append(db.bookings, b)

	if idempotencyKey != "" {
		db.idempotencyKeys[idempotencyKey] = b.ID
	}

	db.l.LogDebugf("Booking %v stored, ledger size %d", b.ID, len(db.bookings))

	return b, nil
}

func (db *DB) GetBookingByIdempotencyKey(_ context.Context, key string) (booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id, ok := db.idempotencyKeys[key]
	if !ok {
		return booking.Booking{}, booking.ErrRecordNotFound
	}

	return db.bookings[db.bookingIdx[id]], nil
}

func (db *DB) GetBookings(_ context.Context) ([]booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return append(make([]booking.Booking, 0, len(db.bookings)), db.bookings...), nil
}

// UpdateBookingStatus reports whether the stored status actually changed.
func (db *DB) UpdateBookingStatus(_ context.Context, id string, status booking.Status) (booking.Booking, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	idx, ok := db.bookingIdx[id]
	if !ok {
		return booking.Booking{}, false, booking.ErrRecordNotFound
	}

	if db.bookings[idx].Status == status {
		return db.bookings[idx], false, nil
	}

	db.bookings[idx].Status = status

	return db.bookings[idx], true, nil
}

func (db *DB) SaveUser(_ context.Context, user booking.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if user.ID == "" {
		return fmt.Errorf("save user %q: %w", user.Name, ErrEmptyID)
	}

	db.currentUser = &user

	return nil
}

func (db *DB) GetCurrentUser(_ context.Context) (booking.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.currentUser == nil {
		return booking.User{}, booking.ErrRecordNotFound
	}

	return *db.currentUser, nil
}
