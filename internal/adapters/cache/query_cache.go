package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"trip-ingestion-service/internal/domain"
	"trip-ingestion-service/internal/ports"

	"github.com/bluele/gcache"
)

const groupedKey = "grouped"

// CachedTripQuerier is an in-process LRU cache in front of a TripQuerier.
// Entries expire after the configured TTL and are dropped on Invalidate,
// which the ingestion path calls after every committed batch.
//
// A read that was in flight when Invalidate ran may hold pre-commit data,
// so its result is returned but not stored.
type CachedTripQuerier struct {
	next  ports.TripQuerier
	store gcache.Cache

	mu  sync.Mutex
	gen uint64
}

func NewCachedTripQuerier(next ports.TripQuerier, size int, ttl time.Duration) *CachedTripQuerier {
	return &CachedTripQuerier{
		next: next,
		store: gcache.New(size).
			LRU().
			Expiration(ttl).
			Build(),
	}
}

func (c *CachedTripQuerier) GroupedTrips(ctx context.Context) ([]domain.TripGroup, error) {
	if v, err := c.store.Get(groupedKey); err == nil {
		if groups, ok := v.([]domain.TripGroup); ok {
			return groups, nil
		}
	} else if !errors.Is(err, gcache.KeyNotFoundError) {
		return nil, fmt.Errorf("grouped trips cache: get: %w", err)
	}

	gen := c.generation()
	groups, err := c.next.GroupedTrips(ctx)
	if err != nil {
		return nil, err
	}

	c.setIfCurrent(gen, groupedKey, groups)
	return groups, nil
}

func (c *CachedTripQuerier) WeeklyTripCounts(ctx context.Context, region string) ([]domain.WeeklyCount, error) {
	key := "weekly|" + region

	if v, err := c.store.Get(key); err == nil {
		if counts, ok := v.([]domain.WeeklyCount); ok {
			return counts, nil
		}
	} else if !errors.Is(err, gcache.KeyNotFoundError) {
		return nil, fmt.Errorf("weekly trip counts cache: get: %w", err)
	}

	gen := c.generation()
	counts, err := c.next.WeeklyTripCounts(ctx, region)
	if err != nil {
		return nil, err
	}

	c.setIfCurrent(gen, key, counts)
	return counts, nil
}

// Invalidate drops every cached aggregation and fences off reads already in flight.
func (c *CachedTripQuerier) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.store.Purge()
}

func (c *CachedTripQuerier) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *CachedTripQuerier) setIfCurrent(gen uint64, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return
	}
	_ = c.store.Set(key, value)
}
