package ratelimiter

import (
	"sync"
	"time"

	"github.com/SeakMengs/Annotator/internal/config"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type window struct {
	count int
	reset time.Time
}

// FixedWindowRateLimiter allows each key a fixed number of requests per time frame.
// Counters of idle keys expire with their window.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	windows *cache.Cache
	limit   int
	frame   time.Duration
	enabled bool
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewFixedWindowLimiter(cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *FixedWindowRateLimiter {
	frame := cfg.TimeFrame
	if frame <= 0 {
		frame = time.Minute
	}

	return &FixedWindowRateLimiter{
		windows: cache.New(frame, 2*frame),
		limit:   cfg.RequestsPerTimeFrame,
		frame:   frame,
		enabled: cfg.Enabled && cfg.RequestsPerTimeFrame > 0,
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Enabled() bool {
	return rl.enabled
}

// Allow counts a request for key. When the limit is exceeded it returns false
// and the time left until the window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	if !rl.enabled {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	if v, ok := rl.windows.Get(key); ok {
		w := v.(*window)
		if now.Before(w.reset) {
			w.count++
			if w.count > rl.limit {
				rl.logger.Debugf("Rate limit exceeded for %s", key)
				return false, w.reset.Sub(now)
			}
			return true, 0
		}
	}

	rl.windows.Set(key, &window{count: 1, reset: now.Add(rl.frame)}, rl.frame)
	return true, 0
}
