package adapthttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietprogram/internal/app"
	"dietprogram/internal/domain"
	"dietprogram/internal/metrics"
)

func TestLoggingMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := &Server{log: log}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.requestIDMiddleware(s.loggingMiddleware(next))

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/test-path", entry.Data["path"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "abc-123", entry.Data["request_id"])
}

func TestRequestIDGenerated(t *testing.T) {
	s := &Server{}
	var seen string
	handler := s.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(requestIDHeader))
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrEmptyMeal, http.StatusBadRequest},
		{domain.ErrInvalidFoodReference, http.StatusBadRequest},
		{domain.ErrInvalidDateRange, http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{app.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{app.ErrInvalidCredentials, http.StatusUnauthorized},
		{app.ErrSessionExpired, http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, errorStatus(tc.err), tc.err.Error())
	}
}

func TestWriteServiceErrorHidesInternalErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := &Server{log: log}

	w := httptest.NewRecorder()
	s.writeServiceError(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestRateLimiterPerClient(t *testing.T) {
	m := metrics.New()
	rl := NewRateLimiter(1, time.Hour, m)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"))

	expected := `
# HELP dietprogram_http_rate_limited_total Requests rejected by the rate limiter.
# TYPE dietprogram_http_rate_limited_total counter
dietprogram_http_rate_limited_total 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "dietprogram_http_rate_limited_total"))
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(10 * time.Minute)
	rl.getLimiter("b")

	assert.Equal(t, 1, rl.Prune(5*time.Minute))
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "b")
}
