package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/business"
	"github.com/saleledger/backend/internal/domain/shared"
)

// VATRateCache caches directory VAT rates and remembers the last known
// rate per business. The cached rate serves two jobs: it keeps the hot
// capture path off the directory table, and it is the rate source for
// captures made while the backend is unreachable (the directory itself
// cannot be queried offline).
type VATRateCache struct {
	directory business.Directory
	client    *redis.Client // nil means in-process cache only
	ttl       time.Duration
	keyPrefix string

	mu    sync.RWMutex
	local map[uuid.UUID]localRate
}

type localRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// NewVATRateCache creates a cache over the given directory. A nil redis
// client degrades to the in-process map, which is also the fallback
// whenever redis is unreachable.
func NewVATRateCache(directory business.Directory, client *redis.Client, ttl time.Duration) *VATRateCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &VATRateCache{
		directory: directory,
		client:    client,
		ttl:       ttl,
		keyPrefix: "business:vatrate:",
		local:     make(map[uuid.UUID]localRate),
	}
}

// Rate returns the current VAT rate for a business, consulting redis,
// then the directory. Every successful lookup refreshes the in-process
// last-known entry.
func (c *VATRateCache) Rate(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error) {
	if c.client != nil {
		if raw, err := c.client.Get(ctx, c.keyPrefix+businessID.String()).Result(); err == nil {
			if rate, derr := decimal.NewFromString(raw); derr == nil {
				c.remember(businessID, rate)
				return rate, nil
			}
		}
	}

	rate, err := c.directory.VATRate(ctx, businessID)
	if err != nil {
		return decimal.Zero, err
	}

	if c.client != nil {
		// Best effort; a failed cache write never fails the lookup
		_ = c.client.Set(ctx, c.keyPrefix+businessID.String(), rate.String(), c.ttl).Err()
	}
	c.remember(businessID, rate)
	return rate, nil
}

// LastKnownRate returns the most recently observed rate for a business
// without any I/O. Used by the offline capture path, where the directory
// is unreachable by definition. Returns ErrNotFound if the business has
// never been observed on this instance.
func (c *VATRateCache) LastKnownRate(businessID uuid.UUID) (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.local[businessID]
	if !ok {
		return decimal.Zero, shared.ErrNotFound
	}
	return entry.rate, nil
}

// Invalidate drops the cached rate for a business, forcing the next
// lookup back to the directory. Called by the directory admin service
// after a rate change. The last-known entry survives: a stale offline
// rate beats no rate at all.
func (c *VATRateCache) Invalidate(ctx context.Context, businessID uuid.UUID) {
	if c.client != nil {
		_ = c.client.Del(ctx, c.keyPrefix+businessID.String()).Err()
	}
}

func (c *VATRateCache) remember(businessID uuid.UUID, rate decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local[businessID] = localRate{rate: rate, fetchedAt: time.Now()}
}
