// Package modelinfo keeps the prediction API's model description close at
// hand.  The inference page renders it on every request, but it changes only
// when the model is redeployed, so one good answer is reused for a TTL.
//
// Concurrent misses are coalesced with singleflight so a burst of page loads
// after expiry costs one upstream call.  Errors are never cached: the next
// request tries again.
//
// The shared fetch runs detached from the request that started it, bounded
// by FetchTimeout, so one client hanging up does not fail every waiter.
package modelinfo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/abalone/internal/metrics"
	"github.com/yanizio/abalone/internal/predictor"
)

// FetchTimeout bounds one upstream model-info call.
const FetchTimeout = 10 * time.Second

// Source is satisfied by *predictor.Client.
type Source interface {
	ModelInfo(ctx context.Context) (*predictor.ModelInfo, error)
}

// Cache wraps a Source.  A zero TTL turns caching off but keeps coalescing.
type Cache struct {
	src Source
	now func() time.Time

	sfg singleflight.Group

	mu      sync.RWMutex
	ttl     time.Duration
	info    *predictor.ModelInfo
	expires time.Time
}

// New returns a Cache over src.
func New(src Source, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

// ModelInfo returns the cached description or fetches a fresh one.
func (c *Cache) ModelInfo(ctx context.Context) (*predictor.ModelInfo, error) {
	if info := c.fresh(); info != nil {
		metrics.ModelInfoLookups.WithLabelValues(metrics.LookupHit).Inc()
		return info, nil
	}

	v, err, _ := c.sfg.Do("info", func() (any, error) {
		if info := c.fresh(); info != nil {
			return info, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()
		info, err := c.src.ModelInfo(fctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.ttl > 0 {
			c.info, c.expires = info, c.now().Add(c.ttl)
		}
		c.mu.Unlock()
		return info, nil
	})
	if err != nil {
		metrics.ModelInfoLookups.WithLabelValues(metrics.LookupError).Inc()
		return nil, err
	}
	metrics.ModelInfoLookups.WithLabelValues(metrics.LookupMiss).Inc()
	return v.(*predictor.ModelInfo), nil
}

// SetTTL changes the TTL for values fetched from now on and drops the
// cached value.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.info, c.expires = nil, time.Time{}
	c.mu.Unlock()
}

// Invalidate drops the cached value.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.info, c.expires = nil, time.Time{}
	c.mu.Unlock()
}

func (c *Cache) fresh() *predictor.ModelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.info != nil && c.now().Before(c.expires) {
		return c.info
	}
	return nil
}
