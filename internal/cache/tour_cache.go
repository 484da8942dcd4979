// Package cache holds the optional redis-backed tour cache. Cart and order
// reads resolve every line's tour from the catalog; a short TTL in front of
// those lookups keeps checkout pages from hammering the CMS while still
// letting price changes propagate within minutes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/funtravel/tours-backend/pkg/strapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Key layout: tour:{slug} -> JSON-encoded strapi.Tour
const keyTour = "tour:"

// TourCache caches catalog tours by slug. A nil *TourCache is valid and
// degrades to pass-through.
type TourCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New creates a tour cache on top of a redis client
func New(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *TourCache {
	return &TourCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached tour for a slug, or nil on miss. Cache failures are
// logged and treated as misses; the catalog stays the source of truth.
func (c *TourCache) Get(ctx context.Context, slug string) *strapi.Tour {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, keyTour+slug).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("slug", slug).Warn("Tour cache read failed")
		}
		return nil
	}

	var tour strapi.Tour
	if err := json.Unmarshal(data, &tour); err != nil {
		c.logger.WithError(err).WithField("slug", slug).Warn("Tour cache entry corrupt")
		return nil
	}
	return &tour
}

// Set stores a tour under its slug for the configured TTL
func (c *TourCache) Set(ctx context.Context, tour *strapi.Tour) {
	if c == nil || c.rdb == nil || tour == nil {
		return
	}

	data, err := json.Marshal(tour)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyTour+tour.Slug, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("slug", tour.Slug).Warn("Tour cache write failed")
	}
}
