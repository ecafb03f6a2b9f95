package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shortlink-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimit 全局限流中间件。
// 配置了 Redis 时按客户端 IP 做分布式固定窗口计数，否则退回进程内的全局令牌桶。
func RateLimit(redisClient *redis.Client, limitConfig *config.Limit, logger *zap.Logger) gin.HandlerFunc {
	if !limitConfig.Enabled || limitConfig.Requests <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	allow := memoryLimiter(limitConfig)
	if redisClient != nil {
		allow = redisLimiter(redisClient, limitConfig, logger)
	}

	return func(c *gin.Context) {
		for _, path := range limitConfig.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		if !allow(c) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}

func memoryLimiter(limitConfig *config.Limit) func(*gin.Context) bool {
	burst := int(limitConfig.Burst)
	if burst <= 0 {
		burst = 1
	}
	// 配置按分钟计，rate.Limit 按秒计
	limiter := rate.NewLimiter(rate.Limit(float64(limitConfig.Requests)/60), burst)

	return func(*gin.Context) bool {
		return limiter.Allow()
	}
}

func redisLimiter(client *redis.Client, limitConfig *config.Limit, logger *zap.Logger) func(*gin.Context) bool {
	max := limitConfig.Requests + limitConfig.Burst
	return func(c *gin.Context) bool {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, time.Minute)
		if _, err := pipe.Exec(ctx); err != nil {
			// Redis 不可用时放行
			logger.Warn("限流计数失败", zap.Error(err))
			return true
		}
		return incr.Val() <= max
	}
}
