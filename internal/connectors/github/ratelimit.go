package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HourlyQuota is the authenticated REST quota of one token.
	HourlyQuota = 5000

	// DefaultRequestsPerSecond is the pacing used when none is configured.
	DefaultRequestsPerSecond = 20.0

	// QuotaReserve is how many requests are kept back before waiting for the reset.
	QuotaReserve = 100
)

// Quota headers sent with every REST response.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
)

// Quota is the last quota state GitHub reported for a token.
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// exhausted reports whether calls should wait for the reset at now.
func (q Quota) exhausted(now time.Time) bool {
	return q.Remaining < QuotaReserve && now.Before(q.Reset)
}

// RateLimiter paces the requests made with one access token.
// Pacing is a token bucket whose burst equals the per-second rate, so a batch
// of readme downloads can start together. On top of that, calls stop once the
// reported quota drops under QuotaReserve until GitHub resets it.
type RateLimiter struct {
	bucket *rate.Limiter

	mu    sync.Mutex
	quota Quota
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond.
// Non-positive rates fall back to DefaultRequestsPerSecond.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	burst := max(int(requestsPerSecond), 1)
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		// Until GitHub says otherwise the full quota is assumed
		quota: Quota{Limit: HourlyQuota, Remaining: HourlyQuota},
	}
}

// Wait blocks until a request may be sent or ctx ends.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	q := r.Quota()
	if !q.exhausted(time.Now()) {
		return nil
	}

	timer := time.NewTimer(time.Until(q.Reset))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Observe records the quota headers of resp. Missing or unparsable headers
// leave the corresponding value unchanged.
func (r *RateLimiter) Observe(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		r.quota.Limit = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.quota.Remaining = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.quota.Reset = time.Unix(v, 0)
	}
}

// Quota returns the last observed quota.
func (r *RateLimiter) Quota() Quota {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quota
}

// limitError describes the current quota as an error.
func (r *RateLimiter) limitError() *RateLimitError {
	q := r.Quota()
	return &RateLimitError{ResetAt: q.Reset, Remaining: q.Remaining, Limit: q.Limit}
}

func headerInt(h http.Header, key string) (int64, bool) {
	raw := h.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
