package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/avstrong/roomdash/internal/booking"
	"github.com/avstrong/roomdash/internal/config"
	"github.com/avstrong/roomdash/internal/idgen/uuidgen"
	"github.com/avstrong/roomdash/internal/logger"
	"github.com/avstrong/roomdash/internal/metrics"
	"github.com/avstrong/roomdash/internal/migration"
	"github.com/avstrong/roomdash/internal/obs"
	"github.com/avstrong/roomdash/internal/storage/memory"
	"github.com/avstrong/roomdash/internal/transport/web"
)

const (
	serviceName = "roomdash"
	version     = "0.1.0"
)

// Deps is everything built from the config that both commands need.
type Deps struct {
	Storage *memory.DB
	Manager *booking.Manager
	Metrics *metrics.Metrics
	Tracer  *sdktrace.TracerProvider
}

// Shutdown flushes pending spans.
func (d *Deps) Shutdown(ctx context.Context) error {
	if err := d.Tracer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}

	return nil
}

func Build(ctx context.Context, l *logger.Logger, conf *config.Config) (*Deps, error) {
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	tp, err := obs.InitTracer(ctx, obs.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Exporter:       conf.TraceExporter,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	m := metrics.New()

	storage := memory.New(memory.Config{L: l})

	bookManager := booking.New(booking.Config{
		L:              l,
		Latency:        conf.Latency.Booking(),
		Location:       loc,
		Recorder:       m,
		TracerProvider: tp,
	}, storage, uuidgen.New("booking"))

	if err := migration.Up(ctx, l, storage, migration.Conf{
		File:  conf.SeedFile,
		Today: bookManager.Now(),
	}); err != nil {
		return nil, fmt.Errorf("up seed migration: %w", err)
	}

	l.LogInfo("Seed migration has been applied")

	return &Deps{
		Storage: storage,
		Manager: bookManager,
		Metrics: m,
		Tracer:  tp,
	}, nil
}

func Run(l *logger.Logger, conf *config.Config) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	deps, err := Build(ctx, l, conf)
	if err != nil {
		return err
	}

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      l.StdLogger(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
		MetricsEndpoint:   conf.MetricsEndpoint,
		TracerProvider:    deps.Tracer,
	}

	srv, err := web.New(ctx, webConf, deps.Manager, deps.Metrics)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}

		if err := deps.Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop tracing: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()

		return fmt.Errorf("listen and serve: %w", err)
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
