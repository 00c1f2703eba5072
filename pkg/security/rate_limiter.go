package security

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RateLimitConfig 滑动窗口配置
type RateLimitConfig struct {
	WindowSize  time.Duration `json:"window_size"`
	MaxRequests int64         `json:"max_requests"`
}

// RateLimitResult 限流结果
type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int64         `json:"remaining"`
	ResetTime  time.Time     `json:"reset_time"`
	RetryAfter time.Duration `json:"retry_after"`
}

// RateLimiter 基于redis有序集合的滑动窗口限流, redis不可用时放行
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// CheckLimit 记录一次请求并判断是否超出窗口内的上限
func (rl *RateLimiter) CheckLimit(ctx context.Context, key string) *RateLimitResult {
	now := rl.now()
	allowed := &RateLimitResult{Allowed: true, Remaining: rl.config.MaxRequests, ResetTime: now.Add(rl.config.WindowSize)}
	if rl.redis == nil || rl.config.MaxRequests <= 0 {
		return allowed
	}
	windowStart := now.Add(-rl.config.WindowSize)
	key = "ratelimit:" + key

	pipe := rl.redis.TxPipeline()

	// 清理过期记录
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixNano()))

	// 同一纳秒的请求不能互相覆盖
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})

	countCmd := pipe.ZCard(ctx, key)

	pipe.Expire(ctx, key, rl.config.WindowSize+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		hlog.CtxWarnf(ctx, "rate limiter unavailable, allow request: %v", err)
		return allowed
	}

	count := countCmd.Val()
	result := &RateLimitResult{
		Allowed:   count <= rl.config.MaxRequests,
		Remaining: rl.config.MaxRequests - count,
		ResetTime: now.Add(rl.config.WindowSize),
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	if !result.Allowed {
		result.RetryAfter = rl.config.WindowSize
	}
	return result
}
