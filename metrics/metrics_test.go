package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuote(t *testing.T) {
	m := New()

	m.ObserveQuote("quote", "ok", 0.2)
	m.ObserveQuote("quote", "ok", 0.1)
	m.ObserveQuote("quote", "not_found", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuoteRequests.WithLabelValues("quote", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteRequests.WithLabelValues("quote", "not_found")))
}

func TestObserveQuote_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveQuote("quote", "ok", 1) })
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues("GET", "/api/assets", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/assets",status="200"} 1`)
}
