package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// bodyCapture duplicates the response body while forwarding it.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in Redis. The catalog
// endpoints are read-mostly; eventual consistency is acceptable for
// display, so a short TTL is enough. Pass a nil client to disable.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		ctx := c.Request.Context()

		if body, err := rdb.Get(ctx, key).Bytes(); err == nil && len(body) > 0 {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Header("X-Cache", "MISS")

		c.Next()

		if capture.Status() == http.StatusOK && capture.buf.Len() > 0 {
			_ = rdb.Set(ctx, key, capture.buf.Bytes(), ttl).Err()
		}
	}
}

func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("httpcache:%x", sum[:])
}
