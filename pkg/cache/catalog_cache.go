// Package cache holds the explicit process-local caches. They are passed by
// reference through the container, never kept as package-level singletons.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"eop-planner-be/internal/entity"
)

const catalogKey = "rule_catalog"

// CatalogCache is a TTL read-through cache for the rule catalog. The catalog
// is effectively immutable after seeding, so time-based expiry is only a
// safety valve; Set is also called write-through on seed.
type CatalogCache struct {
	cache *gocache.Cache
}

func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CatalogCache) Get() (*entity.RuleCatalog, bool) {
	if x, found := c.cache.Get(catalogKey); found {
		return x.(*entity.RuleCatalog), true
	}
	return nil, false
}

func (c *CatalogCache) Set(catalog *entity.RuleCatalog) {
	c.cache.Set(catalogKey, catalog, gocache.DefaultExpiration)
}
