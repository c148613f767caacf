package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

// RateLimiter is a fixed-window counter per client IP kept in Redis, so the
// limit holds across instances. A nil client disables limiting.
type RateLimiter struct {
	redisClient *redis.Client
	prefix      string
	limit       int
	window      time.Duration
	logger      logger.Interface
}

func NewRateLimiter(redisClient *redis.Client, prefix string, limit int, window time.Duration, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		prefix:      prefix,
		limit:       limit,
		window:      window,
		logger:      log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redisClient == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(rl.window.Seconds())
		subject := c.ClientIP()
		if userID, ok := UserID(c); ok {
			subject = fmt.Sprintf("user:%d", userID)
		}
		key := fmt.Sprintf("ratelimit:%s:%s:%d", rl.prefix, subject, bucket)
		ctx := c.Request.Context()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			// Fail open when Redis is unreachable.
			rl.logger.Warnw("rate limit check failed", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rl.redisClient.Expire(ctx, key, rl.window+time.Second)
		}

		if count > int64(rl.limit) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
