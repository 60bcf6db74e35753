// Package ratelimit throttles agent tool calls and editor snapshot frames
// with per-key token buckets.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLimited is wrapped by CheckLimit when a key has run out of tokens.
var ErrLimited = errors.New("rate limit exceeded")

// Limiter hands out tokens per key. Every key starts with a full bucket of
// burst tokens that refills at rate tokens per second.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	burst   int
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewLimiter creates a limiter refilling rate tokens per second up to burst.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     time.Now,
	}
}

// PerMinute creates a limiter allowing n calls per minute with the given burst.
func PerMinute(n int, burst int) *Limiter {
	return NewLimiter(float64(n)/60.0, burst)
}

// Allow takes a token for key, reporting false when none is left.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.burst), last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.tokens+l.rate*elapsed, float64(l.burst))
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Forget drops the bucket for key. The live feed calls it when a
// websocket client disconnects.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ToolLimiters maps MCP tool names to their limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters returns the default per-tool limits. Reset is the only
// destructive tool and gets the tightest budget.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"homesense_hint":         PerMinute(60, 10),
		"homesense_check":        PerMinute(30, 5),
		"homesense_achievements": PerMinute(60, 10),
		"homesense_reset":        PerMinute(2, 1),
		"homesense_protocols":    PerMinute(60, 10),
		"homesense_graph":        PerMinute(30, 5),
	}
}

// CheckLimit takes a token for the named tool. Tools without a limiter are
// never throttled.
func CheckLimit(limiters ToolLimiters, tool string) error {
	l, ok := limiters[tool]
	if !ok {
		return nil
	}
	if !l.Allow(tool) {
		return fmt.Errorf("%s: %w, please try again shortly", tool, ErrLimited)
	}
	return nil
}
