package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Simplici0/fabrica/internal/catalog"
)

// DefaultFactorTTL bounds how long an edited pricing factor can stay unseen.
const DefaultFactorTTL = 30 * time.Second

// FactorSource loads the active pricing factor from storage.
type FactorSource interface {
	ActivePricingFactor(ctx context.Context) (catalog.PricingFactor, error)
}

// FactorCache holds the active pricing factor between reads.
type FactorCache interface {
	Get(ctx context.Context) (catalog.PricingFactor, bool, error)
	Set(ctx context.Context, p catalog.PricingFactor, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// Factors resolves the active pricing factor through a short-TTL cache.
type Factors struct {
	source FactorSource
	cache  FactorCache
	ttl    time.Duration
	log    *slog.Logger
}

func NewFactors(source FactorSource, cache FactorCache, ttl time.Duration, logger *slog.Logger) *Factors {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if ttl <= 0 {
		ttl = DefaultFactorTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factors{source: source, cache: cache, ttl: ttl, log: logger}
}

// Active returns the active pricing factor. found is false when none is
// configured; err is set only when the lookup itself failed.
func (f *Factors) Active(ctx context.Context) (catalog.PricingFactor, bool, error) {
	cached, ok, err := f.cache.Get(ctx)
	if err != nil {
		f.log.Warn("pricing factor cache read failed", "error", err)
	} else if ok {
		return cached, true, nil
	}

	p, err := f.source.ActivePricingFactor(ctx)
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.PricingFactor{}, false, nil
	}
	if err != nil {
		return catalog.PricingFactor{}, false, fmt.Errorf("load active pricing factor: %w", err)
	}

	if err := f.cache.Set(ctx, p, f.ttl); err != nil {
		f.log.Warn("pricing factor cache write failed", "error", err)
	}
	return p, true, nil
}

// Invalidate drops the cached factor so the next read hits storage.
func (f *Factors) Invalidate(ctx context.Context) error {
	if err := f.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate pricing factor cache: %w", err)
	}
	return nil
}

// MemoryCache is an in-process FactorCache.
type MemoryCache struct {
	mu      sync.RWMutex
	value   catalog.PricingFactor
	expires time.Time
	set     bool
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (c *MemoryCache) Get(context.Context) (catalog.PricingFactor, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set || !c.now().Before(c.expires) {
		return catalog.PricingFactor{}, false, nil
	}
	return c.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, p catalog.PricingFactor, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = p
	c.expires = c.now().Add(ttl)
	c.set = true
	return nil
}

func (c *MemoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = catalog.PricingFactor{}
	c.set = false
	return nil
}
