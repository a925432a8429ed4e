package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/degreeplanner-backend/internal/domain"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
)

// RelationshipCache stores the bulk course-relationship map so the
// visualization endpoint does not re-traverse the whole graph per
// request. Misses and cache failures both read as "not cached".
type RelationshipCache interface {
	Get(ctx context.Context) (map[string]*domain.CourseRelationships, bool)
	Set(ctx context.Context, rels map[string]*domain.CourseRelationships)
	Invalidate(ctx context.Context)
	Close() error
}

type relationshipCache struct {
	log *logger.Logger
	rdb *goredis.Client
	key string
	ttl time.Duration
}

func NewRelationshipCache(addr string, ttl time.Duration, log *logger.Logger) (RelationshipCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &relationshipCache{
		log: log.With("client", "RelationshipCache"),
		rdb: rdb,
		key: "catalog:relationships",
		ttl: ttl,
	}, nil
}

func (c *relationshipCache) Get(ctx context.Context) (map[string]*domain.CourseRelationships, bool) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("relationship cache read failed", "error", err)
		return nil, false
	}
	var rels map[string]*domain.CourseRelationships
	if err := json.Unmarshal(raw, &rels); err != nil {
		c.log.Warn("relationship cache payload corrupt, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return rels, true
}

func (c *relationshipCache) Set(ctx context.Context, rels map[string]*domain.CourseRelationships) {
	raw, err := json.Marshal(rels)
	if err != nil {
		c.log.Warn("relationship cache marshal failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("relationship cache write failed", "error", err)
	}
}

func (c *relationshipCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		c.log.Warn("relationship cache invalidate failed", "error", err)
	}
}

func (c *relationshipCache) Close() error {
	return c.rdb.Close()
}
