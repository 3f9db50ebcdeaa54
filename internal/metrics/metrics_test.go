package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingCounters(t *testing.T) {
	m := New()

	m.BookingCreated("1")
	m.BookingCreated("1")
	m.BookingCancelled("1")

	assert.InDelta(t, 2, testutil.ToFloat64(m.bookingsCreated.WithLabelValues("1")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.bookingsCanceled.WithLabelValues("1")), 0)
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", "/api/rooms/v1", 200, 300*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}
