package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestSession_RequiresHeader(t *testing.T) {
	var seen string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderSessionID, " abc ")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", seen)
}

func TestRateLimiter_RejectsOverBurstPerKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.True(t, ok)

	ok, retry := l.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Second, retry)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "keys are limited independently")

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok, "token refilled after a second")
}

func TestRateLimiter_CleanupDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(2 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Len())
}

func TestRateLimiter_MiddlewareSetsRetryAfter(t *testing.T) {
	l := NewRateLimiter(0.5, 1, time.Minute)
	h := Session(l.Middleware(okHandler))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(HeaderSessionID, "s1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do().Code)

	rec := do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("appointment-test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Handle("/api/v1/slots/{slotId}/availability", okHandler).Methods(http.MethodGet)

	for _, id := range []string{"1", "2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/slots/"+id+"/availability", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	var out dto.Metric
	require.NoError(t, m.HTTPRequestsTotal.WithLabelValues(
		http.MethodGet, "/api/v1/slots/{slotId}/availability", "204").Write(&out))
	assert.Equal(t, 2.0, out.Counter.GetValue())
}
