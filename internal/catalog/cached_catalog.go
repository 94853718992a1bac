package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedCatalog keeps successful topic, topic list and quiz lookups in Redis.
// Cache failures fall through to the wrapped catalog.
type CachedCatalog struct {
	next Catalog
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedCatalog wraps next with a read-through cache.
func NewCachedCatalog(next Catalog, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedCatalog {
	return &CachedCatalog{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "catalog_cache").Logger(),
	}
}

func (c *CachedCatalog) GetTopic(ctx context.Context, topicID int) (model.Topic, error) {
	return cached(ctx, c, config.CacheKey.CatalogTopicKey(topicID), func() (model.Topic, error) {
		return c.next.GetTopic(ctx, topicID)
	})
}

func (c *CachedCatalog) ListTopics(ctx context.Context, courseID int) ([]model.TopicSummary, error) {
	return cached(ctx, c, config.CacheKey.CatalogTopicListKey(courseID), func() ([]model.TopicSummary, error) {
		return c.next.ListTopics(ctx, courseID)
	})
}

func (c *CachedCatalog) GetQuiz(ctx context.Context, topicID int) (model.Quiz, error) {
	return cached(ctx, c, config.CacheKey.CatalogQuizKey(topicID), func() (model.Quiz, error) {
		return c.next.GetQuiz(ctx, topicID)
	})
}

// ListCourses is not cached: the upstream may be serving the fallback list.
func (c *CachedCatalog) ListCourses(ctx context.Context) ([]model.Course, error) {
	return c.next.ListCourses(ctx)
}

func cached[T any](ctx context.Context, c *CachedCatalog, key string, load func() (T, error)) (T, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
