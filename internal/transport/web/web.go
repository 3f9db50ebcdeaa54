package web

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/avstrong/roomdash/internal/booking"
	"github.com/avstrong/roomdash/internal/logger"
	"github.com/avstrong/roomdash/internal/metrics"
)

const tracerName = "github.com/avstrong/roomdash/internal/transport/web"

var ErrPanic = errors.New("panic in http handler")

type Server struct {
	srv      *http.Server
	router   *http.ServeMux
	l        *logger.Logger
	conf     Conf
	bManager *booking.Manager
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	MetricsEndpoint   string

	// TracerProvider defaults to the global one.
	TracerProvider trace.TracerProvider
}

func New(ctx context.Context, conf Conf, bookingManager *booking.Manager, m *metrics.Metrics) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	tp := conf.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	server := &Server{
		srv:      srv,
		router:   mux,
		l:        conf.L,
		conf:     conf,
		bManager: bookingManager,
		metrics:  m,
		tracer:   tp.Tracer(tracerName),
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}
