package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "X-Idempotent-Replay"
	idempotencyTTL    = 24 * time.Hour
	pendingMarker     = "__pending__"
)

// bodyRecorder tees the response so a successful body can be stored for
// replay.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// idempotencyStore is the subset of redis.Client commands the middleware
// needs. Tests supply an in-memory implementation.
type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyMiddleware makes mutating payment endpoints safe to retry. A
// request carrying an Idempotency-Key header reserves the key before the
// handler runs; a retry with the same key replays the stored response
// instead of charging twice. Requests without the header pass through.
func IdempotencyMiddleware(rdb idempotencyStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if key == "" || rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storageKey := "idempotency:" + hashKey(c.Request.Method, c.FullPath(), key)

		reserved, err := rdb.SetNX(ctx, storageKey, pendingMarker, idempotencyTTL).Result()
		if err != nil {
			// Redis being down must not block payments; log and continue.
			log.Warn("idempotency reservation failed", zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			stored, err := rdb.Get(ctx, storageKey).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Warn("idempotency lookup failed", zap.Error(err))
				c.Next()
				return
			}
			if stored == pendingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, errorResponse{Error: errorPayload{
					Type:    "conflict",
					Message: "request with this idempotency key is still in progress",
				}})
				return
			}
			c.Header(replayHeader, "true")
			c.Data(http.StatusOK, "application/json", []byte(stored))
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if c.Writer.Status() >= http.StatusOK && c.Writer.Status() < http.StatusMultipleChoices {
			if err := rdb.Set(ctx, storageKey, recorder.buf.String(), idempotencyTTL).Err(); err != nil {
				log.Warn("idempotency store failed", zap.Error(err))
			}
		} else {
			// Failed requests release the key so the client can retry.
			if err := rdb.Del(ctx, storageKey).Err(); err != nil {
				log.Warn("idempotency release failed", zap.Error(err))
			}
		}
	}
}

func hashKey(method, route, key string) string {
	sum := sha256.Sum256([]byte(method + " " + route + " " + key))
	return hex.EncodeToString(sum[:])
}
