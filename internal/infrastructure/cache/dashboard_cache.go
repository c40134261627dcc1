package cache

import (
	"strconv"
	"sync"
	"time"

	"github.com/damon-houk/artha-ledger/internal/domain/aggregate"
)

// CacheEntry represents a computed dashboard with its creation time
type CacheEntry struct {
	Dashboard aggregate.Dashboard
	Timestamp time.Time
}

// DashboardCache memoizes dashboards by ledger version and calendar day.
// A new ledger version or a new day produces a different key, so stale
// entries are never returned; expiration only bounds memory.
type DashboardCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
}

// NewDashboardCache creates a new dashboard cache
func NewDashboardCache() *DashboardCache {
	return &DashboardCache{
		cache:      make(map[string]CacheEntry),
		expiration: 10 * time.Minute,
	}
}

// generateCacheKey creates a cache key from a ledger version and a date
func generateCacheKey(version uint64, today string) string {
	return strconv.FormatUint(version, 10) + ":" + today
}

// cloneDashboard copies the category map and daily slice so that cached
// entries never share state with callers
func cloneDashboard(d aggregate.Dashboard) aggregate.Dashboard {
	if d.Categories != nil {
		categories := make(map[string]float64, len(d.Categories))
		for k, v := range d.Categories {
			categories[k] = v
		}
		d.Categories = categories
	}
	if d.Daily != nil {
		d.Daily = append([]aggregate.DailyExpense(nil), d.Daily...)
	}
	return d
}

// Get retrieves a dashboard from the cache if available and not expired
func (c *DashboardCache) Get(version uint64, today string) (aggregate.Dashboard, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[generateCacheKey(version, today)]
	if !exists || time.Since(entry.Timestamp) > c.expiration {
		return aggregate.Dashboard{}, false
	}

	return cloneDashboard(entry.Dashboard), true
}

// Put stores a dashboard in the cache
func (c *DashboardCache) Put(version uint64, today string, d aggregate.Dashboard) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[generateCacheKey(version, today)] = CacheEntry{
		Dashboard: cloneDashboard(d),
		Timestamp: time.Now(),
	}
}

// Clear clears all entries from the cache
func (c *DashboardCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// SetExpiration sets the cache expiration duration
func (c *DashboardCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}

// Size returns the number of items in the cache
func (c *DashboardCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *DashboardCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}

// Retain drops every entry whose version differs from version.
// It returns the number of entries removed.
func (c *DashboardCache) Retain(version uint64) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	prefix := strconv.FormatUint(version, 10) + ":"
	count := 0
	for key := range c.cache {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			delete(c.cache, key)
			count++
		}
	}
	return count
}
