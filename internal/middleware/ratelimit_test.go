package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tz-api/internal/config"

	"github.com/stretchr/testify/require"
)

func TestTokenBucketRefillsEachSecond(t *testing.T) {
	now := time.Unix(1000, 0)
	tb := NewTokenBucket(2)
	tb.now = func() time.Time { return now }
	tb.lastSec = now.Unix()

	require.True(t, tb.Allow())
	require.True(t, tb.Allow())
	require.False(t, tb.Allow())

	now = now.Add(time.Second)
	require.True(t, tb.Allow())
}

func TestWrap(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	h := Wrap(ok, config.RateLimit{Enabled: false, QPS: 1})
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	h = Wrap(ok, config.RateLimit{Enabled: true, QPS: 1})
	codes := map[int]int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[rec.Code]++
	}
	// a second boundary may fall between requests
	require.GreaterOrEqual(t, codes[http.StatusTooManyRequests], 1)
}
