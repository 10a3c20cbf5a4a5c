package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbressan/identity-service/internal/domain"
	"github.com/mbressan/identity-service/internal/infrastructure/redis"
	"github.com/mbressan/identity-service/internal/transport/http/response"
)

/*
Rate limit middleware test cases:
1) requests below the limit pass through
2) over the limit answers 429 with Retry-After
3) limiter failure fails open
4) nil limiter disables the middleware
5) authenticated subject and client IP are separate identities
*/

type stubLimiter struct {
	dec  redis.Decision
	err  error
	keys []string
}

func (s *stubLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error) {
	s.keys = append(s.keys, key)
	return s.dec, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	lim := &stubLimiter{dec: redis.Decision{Allowed: true, Limit: 5, Remaining: 4}}
	h := RateLimitFixedWindow(lim, FixedWindowConfig{RouteKey: "login", Limit: 5, Window: time.Minute}, response.WriteError)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	lim := &stubLimiter{dec: redis.Decision{Allowed: false, Limit: 5, RetryAfter: 30 * time.Second}}
	h := RateLimitFixedWindow(lim, FixedWindowConfig{RouteKey: "login", Limit: 5, Window: time.Minute}, response.WriteError)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	lim := &stubLimiter{err: errors.New("redis down")}
	h := RateLimitFixedWindow(lim, FixedWindowConfig{RouteKey: "login", Limit: 5, Window: time.Minute}, response.WriteError)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_NilLimiterDisabled(t *testing.T) {
	h := RateLimitFixedWindow(nil, FixedWindowConfig{RouteKey: "login", Limit: 1, Window: time.Minute}, response.WriteError)(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_IdentityKeying(t *testing.T) {
	lim := &stubLimiter{dec: redis.Decision{Allowed: true}}
	h := RateLimitFixedWindow(lim, FixedWindowConfig{RouteKey: "login", Limit: 5, Window: time.Minute}, response.WriteError)(okHandler())

	anon := httptest.NewRequest(http.MethodPost, "/login", nil)
	anon.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(httptest.NewRecorder(), anon)

	authed := httptest.NewRequest(http.MethodPost, "/login", nil)
	authed = authed.WithContext(WithUser(authed.Context(), domain.User{ID: "u1"}))
	h.ServeHTTP(httptest.NewRecorder(), authed)

	assert.Len(t, lim.keys, 2)
	assert.Contains(t, lim.keys[0], "ip:10.0.0.1")
	assert.Contains(t, lim.keys[1], "u:u1")
	assert.NotEqual(t, lim.keys[0], lim.keys[1])
}
