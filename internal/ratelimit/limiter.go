package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type LimitConfig struct {
	PerMinute int
	Burst     int
}

// Limiter hands out one token bucket per key. Keys of the form "kind:rest"
// use the limit registered for kind, everything else the default.
type Limiter struct {
	enabled     bool
	limits      map[string]LimitConfig
	buckets     map[string]*rate.Limiter
	mu          sync.Mutex
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

func NewLimiter(def LimitConfig, enabled bool) *Limiter {
	l := &Limiter{
		enabled:     enabled,
		limits:      map[string]LimitConfig{"default": def},
		buckets:     make(map[string]*rate.Limiter),
		cleanupDone: make(chan struct{}),
	}

	if enabled {
		go l.cleanup(10 * time.Minute)
	}

	return l
}

func (l *Limiter) SetLimit(kind string, cfg LimitConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limits[kind] = cfg
	for key := range l.buckets {
		if kindOf(key) == kind {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) Allow(key string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		cfg, found := l.limits[kindOf(key)]
		if !found {
			cfg = l.limits["default"]
		}
		bucket = rate.NewLimiter(rate.Limit(float64(cfg.PerMinute)/60.0), cfg.Burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}

// cleanup drops idle buckets so channel-scoped keys do not accumulate.
func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			l.buckets = make(map[string]*rate.Limiter)
			l.mu.Unlock()
		case <-l.cleanupDone:
			return
		}
	}
}

func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.cleanupDone) })
}

func kindOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
