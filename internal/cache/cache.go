package cache

import (
	"time"

	"github.com/agridata-lab/produce-report/internal/types"
	"github.com/moznion/go-optional"
)

type Cache interface {
	Reset()
}

// CacheV1 holds the per-run mutable state a strategy keeps between slices.
// Its main client is gap tracking: the last-seen timestamp per symbol.
type CacheV1 struct {
	lastSeen  map[types.Symbol]time.Time
	otherData map[string]any
}

func NewCacheV1() *CacheV1 {
	return &CacheV1{
		lastSeen:  make(map[types.Symbol]time.Time),
		otherData: make(map[string]any),
	}
}

// Reset implements cache.Cache.
func (c *CacheV1) Reset() {
	c.lastSeen = make(map[types.Symbol]time.Time)
	c.otherData = make(map[string]any)
}

// Observe records an observation time for a symbol and returns the previous
// observation time, if any. This is the single update path for the
// last-seen state.
func (c *CacheV1) Observe(symbol types.Symbol, t time.Time) optional.Option[time.Time] {
	previous, ok := c.lastSeen[symbol]
	c.lastSeen[symbol] = t

	if !ok {
		return optional.None[time.Time]()
	}

	return optional.Some(previous)
}

// LastSeen returns the recorded last observation time for a symbol, if any.
func (c *CacheV1) LastSeen(symbol types.Symbol) optional.Option[time.Time] {
	t, ok := c.lastSeen[symbol]
	if !ok {
		return optional.None[time.Time]()
	}

	return optional.Some(t)
}

// Set cache data by key. This is for strategy scratch state only; gap
// tracking goes through Observe.
func (c *CacheV1) Set(key string, value any) {
	c.otherData[key] = value
}

// Get cache data by key.
func (c *CacheV1) Get(key string) (any, bool) {
	value, ok := c.otherData[key]

	return value, ok
}
