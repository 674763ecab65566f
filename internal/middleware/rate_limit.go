// internal/middleware/rate_limit.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/banadama/banadama-backend/internal/config"
)

// NewRateLimiters builds the per-surface limiters. Counters live in Redis so
// every instance behind the load balancer shares the same windows; the memory
// store is a development-only fallback.
type RateLimiters struct {
	General gin.HandlerFunc
	Auth    gin.HandlerFunc
	Upload  gin.HandlerFunc
}

func NewRateLimiters(cfg *config.Config) *RateLimiters {
	store := newStore(cfg)

	return &RateLimiters{
		General: limitMiddleware(limiter.New(store, limiter.Rate{Period: time.Second, Limit: 10}, limiter.WithTrustForwardHeader(true))),
		Auth:    limitMiddleware(limiter.New(store, limiter.Rate{Period: time.Minute, Limit: 5})),
		Upload:  limitMiddleware(limiter.New(store, limiter.Rate{Period: time.Minute, Limit: 10})),
	}
}

func newStore(cfg *config.Config) limiter.Store {
	if cfg.Redis.Host == "" {
		logrus.Warn("REDIS_HOST not set, using in-memory rate limit store (single instance only)")
		return memory.NewStore()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "banadama:ratelimit",
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to initialize redis rate limit store, falling back to memory")
		return memory.NewStore()
	}
	return store
}

func limitMiddleware(instance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := instance.Get(c, c.ClientIP())
		if err != nil {
			// Rate limiting must not take the API down with it.
			logrus.WithError(err).Error("Rate limiter store error")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", ctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", ctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", ctx.Reset))

		if ctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
