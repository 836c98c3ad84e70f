package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"time"

	"movie-ticketing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache groups. Writes invalidate a whole group.
const (
	GroupMovies    = "movies"
	GroupSchedules = "schedules"
	GroupPrices    = "prices"
	GroupReviews   = "reviews"
)

// Key builds "<prefix>:<group>:<sha1(path?query)>".
func Key(prefix, group string, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return prefix + ":" + group + ":" + hex.EncodeToString(sum[:])
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Middleware serves successful GET responses of group from Redis. Bodies are
// always JSON so only the body is stored. A nil client disables caching.
func Middleware(rdb *redis.Client, cfg utils.CacheConfig, group string, log *zap.Logger) func(http.Handler) http.Handler {
	if rdb == nil || !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := Key(cfg.Prefix, group, r)

			if body, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(body)
				return
			} else if err != redis.Nil {
				log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
			}

			w.Header().Set("X-Cache", "MISS")
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status != http.StatusOK {
				return
			}
			// request context may already be cancelled once the client has the body
			if err := rdb.Set(context.Background(), key, cw.buf.Bytes(), ttl).Err(); err != nil {
				log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
			}
		})
	}
}
