package middleware

import (
	"net/http"
	"sync"
	"time"

	"tz-api/internal/config"
	"tz-api/internal/logger"
)

// 文档注释：令牌桶限流（每秒）
// 背景：在流量峰值时对入口进行限速，避免缓存与数据库被过载。
// 约束：简化实现，不做队列排队，仅丢弃并返回 429；每个整秒补满容量。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wrap 按配置包裹限流；未启用或 QPS 非正时原样返回 next
func Wrap(next http.Handler, c config.RateLimit) http.Handler {
	if !c.Enabled || c.QPS <= 0 {
		return next
	}
	tb := NewTokenBucket(c.QPS)
	logger.L().Info("rate_limit_enabled", "qps", c.QPS)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
