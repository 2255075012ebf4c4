// Package lookup resolves the small string dictionaries (users, hosts, commands and
// notification addresses) to their numeric ids, caching both directions of the mapping.
package lookup

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/gridqueue/gridbroker/pkg/jobstore"
)

const DefaultCacheSize = 100000

// Cache memoizes dictionary ids. Ids never change once assigned, so entries are never
// invalidated, only evicted.
type Cache struct {
	store  jobstore.Store
	caches map[jobstore.LookupTable]*lru.Cache[string, int64]
}

func NewCache(store jobstore.Store, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &Cache{
		store:  store,
		caches: make(map[jobstore.LookupTable]*lru.Cache[string, int64], len(jobstore.LookupTables)),
	}
	for _, table := range jobstore.LookupTables {
		cache, err := lru.New[string, int64](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s cache: %w", table, err)
		}
		c.caches[table] = cache
	}
	return c, nil
}

// Get returns the id of value, or jobstore.ErrLookupNotFound when it was never inserted.
func (c *Cache) Get(ctx context.Context, table jobstore.LookupTable, value string) (int64, error) {
	cache, err := c.cache(table)
	if err != nil {
		return 0, err
	}
	if id, ok := cache.Get(value); ok {
		return id, nil
	}
	id, err := c.store.Lookup(ctx, table, value)
	if err != nil {
		return 0, err
	}
	cache.Add(value, id)
	return id, nil
}

// GetOrInsert returns the id of value, inserting it first if needed. A concurrent insert of
// the same value makes our insert fail, in which case the winner's id is read back.
func (c *Cache) GetOrInsert(ctx context.Context, table jobstore.LookupTable, value string) (int64, error) {
	id, err := c.Get(ctx, table, value)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, jobstore.ErrLookupNotFound) {
		return 0, err
	}

	id, insertErr := c.store.InsertLookup(ctx, table, value)
	if insertErr != nil {
		log.Ctx(ctx).Debug().Err(insertErr).Str("table", string(table)).Str("value", value).
			Msg("lookup insert failed, reading back concurrent insert")
		id, err = c.store.Lookup(ctx, table, value)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve %q in %s: %w", value, table, errors.Join(insertErr, err))
		}
	}
	c.caches[table].Add(value, id)
	return id, nil
}

// Len returns the number of cached entries of a table.
func (c *Cache) Len(table jobstore.LookupTable) int {
	if cache, ok := c.caches[table]; ok {
		return cache.Len()
	}
	return 0
}

func (c *Cache) cache(table jobstore.LookupTable) (*lru.Cache[string, int64], error) {
	cache, ok := c.caches[table]
	if !ok {
		return nil, fmt.Errorf("unknown lookup table %q", table)
	}
	return cache, nil
}
