package ratelimiter

import (
	"testing"
	"time"

	"github.com/SeakMengs/Annotator/internal/config"
)

func TestFixedWindowRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimiterConfig{
		RequestsPerTimeFrame: 2,
		TimeFrame:            time.Minute,
		Enabled:              true,
	}, nil)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := rl.Allow("1.2.3.4")
	if ok {
		t.Fatal("third request in the window should be denied")
	}
	if retryAfter != time.Minute {
		t.Errorf("retryAfter = %v, want %v", retryAfter, time.Minute)
	}

	if ok, _ := rl.Allow("5.6.7.8"); !ok {
		t.Error("other clients have their own window")
	}

	now = now.Add(time.Minute)
	if ok, _ := rl.Allow("1.2.3.4"); !ok {
		t.Error("a new window should allow requests again")
	}
}

func TestDisabledRateLimiter(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{RequestsPerTimeFrame: 1, TimeFrame: time.Minute, Enabled: false}, nil)

	for i := 0; i < 5; i++ {
		if ok, _ := rl.Allow("1.2.3.4"); !ok {
			t.Fatal("disabled limiter must allow every request")
		}
	}
}
