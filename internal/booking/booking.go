package booking

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/avstrong/roomdash/internal/logger"
)

const tracerName = "github.com/avstrong/roomdash/internal/booking"

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type storageReader interface {
	GetRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	GetBookings(ctx context.Context) ([]Booking, error)
	GetCurrentUser(ctx context.Context) (User, error)
	GetBookingByIdempotencyKey(ctx context.Context, key string) (Booking, error)
}

type storageWriter interface {
	// SaveBooking appends b unless idempotencyKey was already used, in which
	// case the booking stored under that key is returned.
	SaveBooking(ctx context.Context, b Booking, idempotencyKey string) (Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status Status) (Booking, bool, error)
}

type storage interface {
	storageReader
	storageWriter
}

type recorder interface {
	BookingCreated(roomID string)
	BookingCancelled(roomID string)
}

type nopRecorder struct{}

func (nopRecorder) BookingCreated(string)   {}
func (nopRecorder) BookingCancelled(string) {}

// Latency is the artificial delay applied to each operation.
type Latency struct {
	ListRooms     time.Duration
	GetRoom       time.Duration
	Slots         time.Duration
	CreateBooking time.Duration
	ListBookings  time.Duration
	CancelBooking time.Duration
	CurrentUser   time.Duration
}

func DefaultLatency() Latency {
	return Latency{
		ListRooms:     300 * time.Millisecond, //nolint:gomnd
		GetRoom:       200 * time.Millisecond, //nolint:gomnd
		Slots:         300 * time.Millisecond, //nolint:gomnd
		CreateBooking: 500 * time.Millisecond, //nolint:gomnd
		ListBookings:  300 * time.Millisecond, //nolint:gomnd
		CancelBooking: 400 * time.Millisecond, //nolint:gomnd
		CurrentUser:   200 * time.Millisecond, //nolint:gomnd
	}
}

type Config struct {
	L        *logger.Logger
	Latency  Latency
	Location *time.Location
	// Clock defaults to time.Now.
	Clock    func() time.Time
	Recorder recorder

	// TracerProvider defaults to the global one.
	TracerProvider trace.TracerProvider
}

type Manager struct {
	l           *logger.Logger
	storage     storage
	idGenerator idGenerator
	latency     Latency
	location    *time.Location
	clock       func() time.Time
	recorder    recorder
	validate    *validator.Validate
	tracer      trace.Tracer
}

func New(conf Config, storage storage, idGenerator idGenerator) *Manager {
	m := &Manager{
		l:           conf.L,
		storage:     storage,
		idGenerator: idGenerator,
		latency:     conf.Latency,
		location:    conf.Location,
		clock:       conf.Clock,
		recorder:    conf.Recorder,
		validate:    newValidator(),
	}

	tp := conf.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	m.tracer = tp.Tracer(tracerName)

	if m.location == nil {
		m.location = time.UTC
	}

	if m.clock == nil {
		m.clock = time.Now
	}

	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}

	return m
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:gomnd
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Now is the manager's clock in its configured location.
func (m *Manager) Now() time.Time {
	return m.clock().In(m.location)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait for simulated latency: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (m *Manager) ListRooms(ctx context.Context) ([]Room, error) {
	ctx, span := m.tracer.Start(ctx, "booking.ListRooms")
	defer span.End()

	if err := wait(ctx, m.latency.ListRooms); err != nil {
		return nil, err
	}

	rooms, err := m.storage.GetRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("get rooms from storage: %w", err)
	}

	bookings, err := m.storage.GetBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bookings from storage: %w", err)
	}

	at := m.Now()

	for i := range rooms {
		rooms[i].Status = LiveStatus(rooms[i], bookings, at)
		rooms[i].LastUpdated = at
	}

	return rooms, nil
}

func (m *Manager) GetRoom(ctx context.Context, id string) (Room, error) {
	ctx, span := m.tracer.Start(ctx, "booking.GetRoom", trace.WithAttributes(attribute.String("room.id", id)))
	defer span.End()

	if err := wait(ctx, m.latency.GetRoom); err != nil {
		return Room{}, err
	}

	return m.getRoom(ctx, id)
}

func (m *Manager) getRoom(ctx context.Context, id string) (Room, error) {
	room, err := m.storage.GetRoom(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return Room{}, NewNotFoundError(ResourceRoom, id)
	}

	if err != nil {
		return Room{}, fmt.Errorf("get room %v from storage: %w", id, err)
	}

	return room, nil
}

// GetSlots returns the slot grid for a room and a "YYYY-MM-DD" date. Unknown
// rooms get a fully available grid.
func (m *Manager) GetSlots(ctx context.Context, roomID, date string) ([]TimeSlot, error) {
	ctx, span := m.tracer.Start(ctx, "booking.GetSlots", trace.WithAttributes(
		attribute.String("room.id", roomID),
		attribute.String("date", date),
	))
	defer span.End()

	if err := wait(ctx, m.latency.Slots); err != nil {
		return nil, err
	}

	bookings, err := m.storage.GetBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bookings from storage: %w", err)
	}

	return Slots(roomID, date, bookings), nil
}

// RoomLiveStatus resolves the room and overlays bookings active at the given
// instant. It backs no endpoint and applies no simulated latency.
func (m *Manager) RoomLiveStatus(ctx context.Context, roomID string, at time.Time) (RoomStatus, error) {
	ctx, span := m.tracer.Start(ctx, "booking.RoomLiveStatus", trace.WithAttributes(attribute.String("room.id", roomID)))
	defer span.End()

	room, err := m.getRoom(ctx, roomID)
	if err != nil {
		return "", err
	}

	bookings, err := m.storage.GetBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("get bookings from storage: %w", err)
	}

	return LiveStatus(room, bookings, at.In(m.location)), nil
}

func (m *Manager) validateInput(input *CreateInput) error {
	inputErr := newInputError()

	if err := m.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("validate booking input: %w", err)
		}

		for _, fieldErr := range validationErrs {
			switch fieldErr.Tag() {
			case "required":
				inputErr.addError(fieldErr.Field(), fmt.Sprintf("provide %s", fieldErr.Field()))
			case "datetime":
				inputErr.addError(fieldErr.Field(), fmt.Sprintf("%s must match %s", fieldErr.Field(), humanLayout(fieldErr.Param())))
			default:
				inputErr.addError(fieldErr.Field(), fieldErr.Error())
			}
		}
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	start, _ := time.Parse(ClockLayout, input.StartTime)
	end, _ := time.Parse(ClockLayout, input.EndTime)

	if !end.After(start) {
		inputErr.addError("endTime", "endTime must be after startTime")

		return inputErr
	}

	// "9:00" and "09:00" must address the same slot.
	input.StartTime = start.Format(ClockLayout)
	input.EndTime = end.Format(ClockLayout)

	return nil
}

func humanLayout(layout string) string {
	switch layout {
	case DateLayout:
		return "YYYY-MM-DD"
	case ClockLayout:
		return "HH:MM"
	default:
		return layout
	}
}

// CreateBooking appends an upcoming booking for an existing room. Booked slots
// are not rejected: an overlapping booking is stored and the slot simply stays
// unavailable.
func (m *Manager) CreateBooking(ctx context.Context, input *CreateInput) (Booking, error) {
	ctx, span := m.tracer.Start(ctx, "booking.CreateBooking", trace.WithAttributes(
		attribute.String("room.id", input.RoomID),
		attribute.String("date", input.Date),
		attribute.String("start", input.StartTime),
	))
	defer span.End()

	if err := m.validateInput(input); err != nil {
		return Booking{}, err
	}

	key, hasKey := IdempotencyKeyFromContext(ctx)
	if hasKey {
		prev, err := m.storage.GetBookingByIdempotencyKey(ctx, key)
		if err == nil {
			return m.replay(ctx, key, prev, input)
		}

		if !errors.Is(err, ErrRecordNotFound) {
			return Booking{}, fmt.Errorf("get booking by idempotency key: %w", err)
		}
	}

	room, err := m.getRoom(ctx, input.RoomID)
	if err != nil {
		return Booking{}, err
	}

	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: %w", ErrNextID, err)
	}

	saved, err := m.storage.SaveBooking(ctx, Booking{
		ID:         id,
		RoomID:     room.ID,
		RoomName:   room.Name,
		RoomNumber: room.RoomNumber,
		Date:       input.Date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Status:     StatusUpcoming,
	}, key)
	if err != nil {
		return Booking{}, fmt.Errorf("save booking to storage: %w", err)
	}

	// A concurrent request with the same key won the race.
	if saved.ID != id {
		return m.replay(ctx, key, saved, input)
	}

	m.recorder.BookingCreated(saved.RoomID)
	m.l.LogInfo("Booking %v created for room %v on %v at %v", saved.ID, saved.RoomID, saved.Date, saved.StartTime)

	if err := wait(ctx, m.latency.CreateBooking); err != nil {
		return Booking{}, err
	}

	return saved, nil
}

// replay answers a retried create with the booking stored under key. A retry
// asking for another slot is refused.
func (m *Manager) replay(ctx context.Context, key string, prev Booking, input *CreateInput) (Booking, error) {
	if prev.RoomID != input.RoomID || prev.Date != input.Date ||
		prev.StartTime != input.StartTime || prev.EndTime != input.EndTime {
		return Booking{}, fmt.Errorf("%w: key %q belongs to booking %v", ErrIdempotencyKeyReused, key, prev.ID)
	}

	m.l.LogInfo("Idempotency key %q replayed, returning booking %v", key, prev.ID)

	if err := wait(ctx, m.latency.CreateBooking); err != nil {
		return Booking{}, err
	}

	return prev, nil
}

// ListBookings returns the whole ledger in insertion order with "past" derived
// from the current time.
func (m *Manager) ListBookings(ctx context.Context) ([]Booking, error) {
	ctx, span := m.tracer.Start(ctx, "booking.ListBookings")
	defer span.End()

	if err := wait(ctx, m.latency.ListBookings); err != nil {
		return nil, err
	}

	bookings, err := m.storage.GetBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bookings from storage: %w", err)
	}

	at := m.Now()

	for i := range bookings {
		bookings[i].Status = EffectiveStatus(bookings[i], at)
	}

	return bookings, nil
}

// CancelBooking flips the booking to cancelled and keeps it in the ledger.
// Cancelling twice is a no-op.
func (m *Manager) CancelBooking(ctx context.Context, id string) (Booking, error) {
	ctx, span := m.tracer.Start(ctx, "booking.CancelBooking", trace.WithAttributes(attribute.String("booking.id", id)))
	defer span.End()

	b, changed, err := m.storage.UpdateBookingStatus(ctx, id, StatusCancelled)
	if errors.Is(err, ErrRecordNotFound) {
		return Booking{}, NewNotFoundError(ResourceBooking, id)
	}

	if err != nil {
		return Booking{}, fmt.Errorf("update booking %v status: %w", id, err)
	}

	if changed {
		m.recorder.BookingCancelled(b.RoomID)
		m.l.LogInfo("Booking %v cancelled", b.ID)
	}

	if err := wait(ctx, m.latency.CancelBooking); err != nil {
		return Booking{}, err
	}

	return b, nil
}

func (m *Manager) CurrentUser(ctx context.Context) (User, error) {
	ctx, span := m.tracer.Start(ctx, "booking.CurrentUser")
	defer span.End()

	if err := wait(ctx, m.latency.CurrentUser); err != nil {
		return User{}, err
	}

	user, err := m.storage.GetCurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("get current user from storage: %w", err)
	}

	return user, nil
}
