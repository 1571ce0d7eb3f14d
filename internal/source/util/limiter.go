package util

import (
	"context"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits outbound requests per hostname, with an optional
// randomized pre-request delay inside configured bounds. Adapters share one
// instance so parallel strategies do not gang up on a provider.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int

	delayMin time.Duration
	delayMax time.Duration
	rng      *rand.Rand
}

func NewHostLimiter(reqPerSec float64, burst int, delayMin, delayMax time.Duration) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	if delayMax < delayMin {
		delayMax = delayMin
	}
	return &HostLimiter{
		m:        make(map[string]*rate.Limiter),
		r:        rate.Limit(reqPerSec),
		b:        burst,
		delayMin: delayMin,
		delayMax: delayMax,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

func (hl *HostLimiter) jitter() time.Duration {
	if hl.delayMax <= 0 {
		return 0
	}
	hl.mu.Lock()
	defer hl.mu.Unlock()
	span := hl.delayMax - hl.delayMin
	if span <= 0 {
		return hl.delayMin
	}
	return hl.delayMin + time.Duration(hl.rng.Int63n(int64(span)))
}

// WaitURL blocks for the host's token plus the jittered delay, or until ctx
// is done. A single bounded sleep, not a retry loop.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := hl.limiterFor(host).Wait(ctx); err != nil {
		return err
	}
	if d := hl.jitter(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
