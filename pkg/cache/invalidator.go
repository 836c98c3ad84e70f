package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Invalidator drops cached responses after writes.
type Invalidator interface {
	Invalidate(ctx context.Context, groups ...string)
}

type redisInvalidator struct {
	rdb    *redis.Client
	prefix string
	log    *zap.Logger
}

// NewInvalidator returns a Redis backed invalidator, or a no-op one when rdb is nil.
func NewInvalidator(rdb *redis.Client, prefix string, log *zap.Logger) Invalidator {
	if rdb == nil {
		return NoopInvalidator{}
	}
	return &redisInvalidator{
		rdb:    rdb,
		prefix: prefix,
		log:    log.With(zap.String("component", "cache")),
	}
}

// Invalidate is best effort; failures are logged and stale entries expire by TTL.
func (i *redisInvalidator) Invalidate(ctx context.Context, groups ...string) {
	for _, group := range groups {
		pattern := i.prefix + ":" + group + ":*"

		var cursor uint64
		for {
			keys, next, err := i.rdb.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				i.log.Warn("Cache scan failed", zap.Error(err), zap.String("pattern", pattern))
				break
			}
			if len(keys) > 0 {
				if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
					i.log.Warn("Cache delete failed", zap.Error(err), zap.String("pattern", pattern))
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
}

type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(context.Context, ...string) {}
