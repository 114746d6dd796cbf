package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/model"
)

// captureWriter tees the response body into a bounded buffer while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
	over   bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.over {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.over = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cachedResponse is the value stored in Redis for one cache key.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// storeIfCurrent writes the entry only while the generation is still
// the one the response was computed under.
var storeIfCurrent = redis.NewScript(`
	local gen = redis.call('GET', KEYS[1]) or '0'
	if gen ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// generationKey holds the counter bumped by every invalidation.  Entries
// are keyed by generation, so bumping it orphans all of them at once.
func generationKey(prefix string) string { return prefix + ":gen" }

// currentGeneration returns the cache generation; a missing counter is
// generation 0.
func currentGeneration(ctx context.Context, rdb *redis.Client, prefix string) (int64, error) {
	gen, err := rdb.Get(ctx, generationKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// cacheKeyFrom builds a stable key honoring prefix, generation and
// strategy.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, gen int64) string {
	r := c.Request()
	var tail string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		tail = "route:" + c.Path()
	case "method_route":
		tail = "method:" + r.Method + ":route:" + c.Path()
	case "method_route_query":
		tail = "method:" + r.Method + ":route:" + c.Path() + ":q:" + r.URL.Query().Encode()
	default: // route_query
		tail = "route:" + c.Path() + ":q:" + r.URL.Query().Encode()
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%d:%x", cfg.Prefix, gen, sum[:])
}

// NewRedisCache caches successful responses in Redis, headers included,
// so a hit is byte-identical to the original.  Hits are marked with
// "X-Cache: HIT".  A response computed while an invalidation happened
// is served but not stored.  It is a no-op when disabled or without a
// client, and it steps aside when Redis errors.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			gen, err := currentGeneration(ctx, rdb, cfg.Prefix)
			if err != nil {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(bs, &cached) == nil {
					for k, vals := range cached.Header {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, _ = c.Response().Write(cached.Body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.over {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := json.Marshal(cachedResponse{Status: cw.status, Header: hdr, Body: cw.buf.Bytes()})
			if err != nil {
				return nil
			}
			keys := []string{generationKey(cfg.Prefix), key}
			args := []interface{}{fmt.Sprint(gen), payload, ttl.Milliseconds()}
			_ = storeIfCurrent.Run(context.WithoutCancel(ctx), rdb, keys, args...).Err()
			return nil
		}
	}
}

// InvalidateCache bumps the cache generation under prefix.  Entries of
// older generations are never read again and expire on their TTL.
func InvalidateCache(ctx context.Context, rdb *redis.Client, prefix string) error {
	return rdb.Incr(ctx, generationKey(prefix)).Err()
}

// CacheInvalidator returns a store listener that invalidates the
// response cache after every mutation, so a cached availability answer
// never outlives the booking that changed it.  It returns nil when
// caching is off.
func CacheInvalidator(cfg config.CacheConfig, rdb *redis.Client) func(model.Change) {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return func(ch model.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := InvalidateCache(ctx, rdb, cfg.Prefix); err != nil {
			log.Printf("cache: invalidate after %s change failed: %v", ch.Kind, err)
		}
	}
}
