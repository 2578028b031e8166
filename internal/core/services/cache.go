package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache key layout
const (
	cacheKeyDeptCount     = "dept:%d:member_count"
	cacheKeyRecentAnnounc = "announcements:recent"

	cacheTTL = 10 * time.Minute
)

// Cache is a thin redis wrapper for derived read-side data. A nil client
// disables caching, every method becomes a no-op or a miss.
type Cache struct {
	rdb *redis.Client
	log *logrus.Logger
}

// NewCache creates a cache around an optional redis client
func NewCache(rdb *redis.Client, log *logrus.Logger) *Cache {
	return &Cache{rdb: rdb, log: log}
}

// GetDepartmentCount returns the cached member count for a department
func (c *Cache) GetDepartmentCount(ctx context.Context, departmentID uint) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, fmt.Sprintf(cacheKeyDeptCount, departmentID)).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

// SetDepartmentCount caches the member count for a department
func (c *Cache) SetDepartmentCount(ctx context.Context, departmentID uint, count int64) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, fmt.Sprintf(cacheKeyDeptCount, departmentID), count, cacheTTL).Err(); err != nil {
		c.log.WithError(err).Warn("cache set failed")
	}
}

// InvalidateDepartmentCount drops the cached count after an approval
// transition touches a department's membership
func (c *Cache) InvalidateDepartmentCount(ctx context.Context, departmentID uint) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, fmt.Sprintf(cacheKeyDeptCount, departmentID)).Err(); err != nil {
		c.log.WithError(err).Warn("cache invalidation failed")
	}
}

// GetRecentAnnouncements returns the cached recent-announcements payload
func (c *Cache) GetRecentAnnouncements(ctx context.Context, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, cacheKeyRecentAnnounc).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetRecentAnnouncements caches the recent-announcements payload
func (c *Cache) SetRecentAnnouncements(ctx context.Context, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyRecentAnnounc, raw, cacheTTL).Err(); err != nil {
		c.log.WithError(err).Warn("cache set failed")
	}
}

// InvalidateRecentAnnouncements drops the cached list after a write
func (c *Cache) InvalidateRecentAnnouncements(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKeyRecentAnnounc).Err(); err != nil {
		c.log.WithError(err).Warn("cache invalidation failed")
	}
}
