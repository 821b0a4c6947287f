// Package ratelimit limits requests per client key.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Config sizes a limiter.
type Config struct {
	RequestsPerMinute int
	Burst             int
	MaxClients        int
	IdleTTL           time.Duration
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Memory is a per process token bucket limiter. Idle clients are evicted
// after IdleTTL and at most MaxClients buckets are kept.
type Memory struct {
	mu            sync.Mutex
	buckets       *expirable.LRU[string, *bucket]
	ratePerMinute float64
	burst         float64
	now           func() time.Time
}

// NewMemory builds a token bucket limiter.
func NewMemory(cfg Config) *Memory {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 5 * time.Minute
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Memory{
		buckets:       expirable.NewLRU[string, *bucket](cfg.MaxClients, nil, cfg.IdleTTL),
		ratePerMinute: float64(cfg.RequestsPerMinute),
		burst:         float64(burst),
		now:           time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: m.burst, lastSeen: now}
	} else {
		elapsed := now.Sub(b.lastSeen).Minutes()
		if elapsed > 0 {
			b.tokens = math.Min(m.burst, b.tokens+elapsed*m.ratePerMinute)
		}
		b.lastSeen = now
	}
	// Add refreshes the idle TTL.
	m.buckets.Add(key, b)
	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

var _ Limiter = (*Memory)(nil)
