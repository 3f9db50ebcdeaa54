package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/avstrong/roomdash/internal/booking"
)

const envPrefix = "ROOMDASH"

type Config struct {
	Host              string        `envconfig:"HOST"                default:"localhost"`
	Port              string        `envconfig:"PORT"                default:"8092"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"20s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT"    default:"4s"`
	LivenessEndpoint  string        `envconfig:"LIVENESS_ENDPOINT"   default:"/liveness"`
	MetricsEndpoint   string        `envconfig:"METRICS_ENDPOINT"    default:"/metrics"`

	LogLevel  string `envconfig:"LOG_LEVEL"  default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// TimeZone decides what "today" and "HH:MM" mean for live status.
	TimeZone string `envconfig:"TIME_ZONE" default:"UTC"`
	SeedFile string `envconfig:"SEED_FILE"`

	// TraceExporter is "none" or "stdout".
	TraceExporter string `envconfig:"TRACE_EXPORTER" default:"none"`

	Latency Latency `envconfig:"LATENCY"`
}

type Latency struct {
	ListRooms     time.Duration `envconfig:"LIST_ROOMS"     default:"300ms"`
	GetRoom       time.Duration `envconfig:"GET_ROOM"       default:"200ms"`
	Slots         time.Duration `envconfig:"SLOTS"          default:"300ms"`
	CreateBooking time.Duration `envconfig:"CREATE_BOOKING" default:"500ms"`
	ListBookings  time.Duration `envconfig:"LIST_BOOKINGS"  default:"300ms"`
	CancelBooking time.Duration `envconfig:"CANCEL_BOOKING" default:"400ms"`
	CurrentUser   time.Duration `envconfig:"CURRENT_USER"   default:"200ms"`
}

// Load reads the optional dotenv files and then the ROOMDASH_* environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}

	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv file %v: %w", file, err)
		}
	}

	var conf Config
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if _, err := conf.Location(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", c.TimeZone, err)
	}

	return loc, nil
}

func (l Latency) Booking() booking.Latency {
	return booking.Latency{
		ListRooms:     l.ListRooms,
		GetRoom:       l.GetRoom,
		Slots:         l.Slots,
		CreateBooking: l.CreateBooking,
		ListBookings:  l.ListBookings,
		CancelBooking: l.CancelBooking,
		CurrentUser:   l.CurrentUser,
	}
}
