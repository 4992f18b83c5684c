package github

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotaResponse(headers map[string]string) *http.Response {
	resp := &http.Response{Header: http.Header{}}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

func TestNewRateLimiter(t *testing.T) {
	r := NewRateLimiter(10)
	assert.Equal(t, Quota{Limit: HourlyQuota, Remaining: HourlyQuota}, r.Quota())
	assert.Equal(t, 10, r.bucket.Burst())
}

func TestNewRateLimiter_Rates(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		wantLimit float64
		wantBurst int
	}{
		{"default", 0, DefaultRequestsPerSecond, int(DefaultRequestsPerSecond)},
		{"negative", -3, DefaultRequestsPerSecond, int(DefaultRequestsPerSecond)},
		{"fractional", 0.5, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(tt.rate)
			assert.InDelta(t, tt.wantLimit, float64(r.bucket.Limit()), 0.001)
			assert.Equal(t, tt.wantBurst, r.bucket.Burst())
		})
	}
}

func TestRateLimiter_Observe(t *testing.T) {
	r := NewRateLimiter(10)
	reset := time.Now().Add(30 * time.Minute).Unix()

	r.Observe(quotaResponse(map[string]string{
		HeaderRateRemaining: "120",
		HeaderRateLimit:     "15000",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	q := r.Quota()
	assert.Equal(t, 120, q.Remaining)
	assert.Equal(t, 15000, q.Limit)
	assert.Equal(t, reset, q.Reset.Unix())
}

func TestRateLimiter_Observe_KeepsValuesOnGarbage(t *testing.T) {
	r := NewRateLimiter(10)

	r.Observe(quotaResponse(map[string]string{HeaderRateRemaining: "lots"}))
	r.Observe(nil)

	assert.Equal(t, HourlyQuota, r.Quota().Remaining)
}

func TestQuota_Exhausted(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		quota Quota
		want  bool
	}{
		{"plenty left", Quota{Remaining: 4000, Reset: now.Add(time.Hour)}, false},
		{"at reserve", Quota{Remaining: QuotaReserve, Reset: now.Add(time.Hour)}, false},
		{"under reserve", Quota{Remaining: QuotaReserve - 1, Reset: now.Add(time.Hour)}, true},
		{"under reserve after reset", Quota{Remaining: 0, Reset: now.Add(-time.Second)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.quota.exhausted(now))
		})
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	r := NewRateLimiter(1000)
	require.NoError(t, r.Wait(context.Background()))
}

func TestRateLimiter_Wait_ExhaustedBlocksUntilReset(t *testing.T) {
	r := NewRateLimiter(1000)
	r.Observe(quotaResponse(map[string]string{
		HeaderRateRemaining: "1",
		HeaderRateReset:     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_Wait_ExhaustedAfterReset(t *testing.T) {
	r := NewRateLimiter(1000)
	r.Observe(quotaResponse(map[string]string{
		HeaderRateRemaining: "1",
		HeaderRateReset:     strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10),
	}))

	require.NoError(t, r.Wait(context.Background()))
}

func TestRateLimiter_LimitError(t *testing.T) {
	r := NewRateLimiter(10)
	reset := time.Now().Add(time.Hour).Unix()
	r.Observe(quotaResponse(map[string]string{
		HeaderRateRemaining: "0",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	err := r.limitError()
	assert.Equal(t, 0, err.Remaining)
	assert.Equal(t, HourlyQuota, err.Limit)
	assert.Equal(t, reset, err.ResetAt.Unix())
}
