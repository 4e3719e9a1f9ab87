// Package cache holds the per-process product query cache. It is an explicit
// object handed around by injection; mutation-then-invalidate is the only
// consistency discipline on top of it.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tk-online/catalog-api/internal/models"
)

const (
	keyList         = "products:list"
	keyDetailPrefix = "products:detail:"
)

func detailKey(id string) string {
	return keyDetailPrefix + id
}

func relatedKey(category, excludeID string) string {
	return fmt.Sprintf("products:related:%s:%s", category, excludeID)
}

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) fresh(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.storedAt) < e.ttl
}

// QueryCache caches list, detail and related product queries. A detail entry
// may be seeded from an already-cached list to skip the redundant fetch when
// navigating from the grid, but such a seed goes stale quickly (seedTTL) so
// an authoritative read follows soon after.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]entry

	listTTL time.Duration
	seedTTL time.Duration

	now func() time.Time
}

func NewQueryCache(listTTL, seedTTL time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]entry),
		listTTL: listTTL,
		seedTTL: seedTTL,
		now:     time.Now,
	}
}

type listFetch func(ctx context.Context) ([]models.Product, error)
type detailFetch func(ctx context.Context) (*models.Product, error)

// List serves the cached product list while fresh and refetches once the
// freshness window has passed. A failed refetch falls back to the stale copy
// rather than erroring a page that had data a moment ago.
func (c *QueryCache) List(ctx context.Context, fetch listFetch) ([]models.Product, error) {
	c.mu.Lock()
	e, ok := c.entries[keyList]
	c.mu.Unlock()

	if ok {
		if cached, valid := e.value.([]models.Product); valid && e.fresh(c.now()) {
			return cached, nil
		}
	}

	products, err := fetch(ctx)
	if err != nil {
		if ok {
			if stale, valid := e.value.([]models.Product); valid {
				return stale, nil
			}
		}
		return nil, err
	}

	c.put(keyList, products, c.listTTL)
	return products, nil
}

// Detail returns the product by id, seeding from the cached list when
// possible. The seed is only trusted for seedTTL; after that the fetch runs
// and its result is cached for the same short window.
func (c *QueryCache) Detail(ctx context.Context, id string, fetch detailFetch) (*models.Product, error) {
	key := detailKey(id)

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if ok {
		if cached, valid := e.value.(models.Product); valid && e.fresh(c.now()) {
			return &cached, nil
		}
	} else if seed := c.seedFromList(id); seed != nil {
		return seed, nil
	}

	product, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.put(key, *product, c.seedTTL)
	return product, nil
}

func (c *QueryCache) seedFromList(id string) *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[keyList]
	if !ok {
		return nil
	}
	products, valid := e.value.([]models.Product)
	if !valid {
		return nil
	}
	for _, p := range products {
		if p.ID.String() == id {
			c.entries[detailKey(id)] = entry{value: p, storedAt: c.now(), ttl: c.seedTTL}
			return &p
		}
	}
	return nil
}

// Related runs the fetch only when both category and the id to exclude are
// supplied, and filters the excluded id out of the result. No freshness
// window: related rails always refetch on access, but a failed refetch falls
// back to the last good rail like List does.
func (c *QueryCache) Related(ctx context.Context, category, excludeID string, fetch listFetch) ([]models.Product, error) {
	if category == "" || excludeID == "" {
		return nil, nil
	}
	key := relatedKey(category, excludeID)

	products, err := fetch(ctx)
	if err != nil {
		c.mu.Lock()
		e, ok := c.entries[key]
		c.mu.Unlock()
		if ok {
			if stale, valid := e.value.([]models.Product); valid {
				return stale, nil
			}
		}
		return nil, err
	}

	related := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID.String() != excludeID {
			related = append(related, p)
		}
	}

	c.put(key, related, 0)
	return related, nil
}

// InvalidateProducts drops every product query. Called after any successful
// create, update, delete or toggle; the next access refetches.
func (c *QueryCache) InvalidateProducts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *QueryCache) put(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
}
