package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/shared/metrics"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Register()
		metrics.Register()
	})
}

func TestHandler(t *testing.T) {
	metrics.Register()
	metrics.BookingTransitions.WithLabelValues("pending", "confirmed").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eventhub_booking_status_transitions_total{from="pending",to="confirmed"}`)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.BookingsCreated)
	metrics.BookingsCreated.Inc()

	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.BookingsCreated), 0.001)
}
