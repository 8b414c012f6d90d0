package utils

import (
	"sync"
	"time"
)

// RateLimiter is a simple fixed-window counter used to throttle websocket
// clients in-process.
type RateLimiter struct {
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	mutex       sync.Mutex
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
	}
}

func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		rl.count = 0
	}

	if rl.count >= rl.limit {
		return false
	}
	rl.count++
	return true
}
