package adapthttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"dietprogram/internal/app"
	"dietprogram/internal/domain"
	"dietprogram/internal/metrics"
)

type contextKey string

const (
	userContextKey      contextKey = "user"
	requestIDContextKey contextKey = "request_id"
)

const requestIDHeader = "X-Request-ID"

func userFromContext(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userContextKey).(*domain.User)
	return u
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// requestIDMiddleware propagates or assigns a request id.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recorderFor(w)
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"request_id": requestIDFromContext(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remote":     clientIP(r),
		}).Info("request")
	})
}

// metricsMiddleware records request counts and latency by route template.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		done := s.metrics.RequestStarted()
		rec := recorderFor(w)
		next.ServeHTTP(rec, r)
		done(r.Method, routeTemplate(r), rec.status)
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// authed wraps h so it only runs with a valid session cookie.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		user, err := s.svc.Auth.ValidateSession(r.Context(), cookie.Value, r.UserAgent())
		if errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrSessionExpired) || errors.Is(err, app.ErrUserNotFound) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		h(w, r.WithContext(ctx))
	})
}

// RateLimiter limits requests per client IP with a token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rate     rate.Limit
	burst    int
	metrics  *metrics.Metrics
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each client, refilled evenly.
func NewRateLimiter(requests int, window time.Duration, m *metrics.Metrics) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    requests,
		metrics:  m,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Handler returns the rate limiting middleware.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimited()
			}
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "too many requests, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune drops limiters idle for longer than idle and returns how many.
func (rl *RateLimiter) Prune(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	n := 0
	for k, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, k)
			n++
		}
	}
	return n
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
