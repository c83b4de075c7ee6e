// Package cache serves repeated public catalog reads from Redis.
package cache

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"foodrunner-api/logger"
)

const Prefix = "catalog:"

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Cache struct {
	rdb Client
	ttl time.Duration
	log *logger.Logger
}

// New returns nil when rdb is nil; a nil *Cache passes every request through.
func New(rdb Client, ttl time.Duration, log *logger.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func key(r *http.Request) string {
	return Prefix + r.URL.RequestURI()
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Responses caches successful GET responses keyed by request URI.
func (c *Cache) Responses() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil || ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		k := key(ctx.Request)
		cached, err := c.rdb.Get(ctx.Request.Context(), k).Result()
		if err == nil {
			ctx.Header("X-Cache", "HIT")
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			ctx.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache_read_failed", ctx.GetString("request_id"), err.Error())
		}

		rec := &bodyRecorder{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Header("X-Cache", "MISS")
		ctx.Next()

		if rec.Status() == http.StatusOK && rec.body.Len() > 0 {
			if err := c.rdb.Set(ctx.Request.Context(), k, rec.body.String(), c.ttl).Err(); err != nil {
				c.log.Warn("cache_write_failed", ctx.GetString("request_id"), err.Error())
			}
		}
	}
}

// Invalidate drops every cached catalog response.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, Prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// InvalidateOnWrite clears the catalog cache after any successful
// mutating request.
func (c *Cache) InvalidateOnWrite() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		if c == nil || ctx.Request.Method == http.MethodGet || ctx.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if err := c.Invalidate(ctx.Request.Context()); err != nil {
			c.log.Warn("cache_invalidate_failed", ctx.GetString("request_id"), err.Error())
		}
	}
}
