package mw

import (
	"context"
	"strconv"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/metrics"
	"NewTube.com/pkg/security"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

// RateLimit 写接口按用户限流, 匿名请求按IP
func RateLimit(limiter *security.RateLimiter) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if limiter == nil {
			c.Next(ctx)
			return
		}
		key := "ip:" + c.ClientIP()
		if v := viewer.FromContext(c); v.Present() {
			key = "user:" + v.UserId
		}
		result := limiter.CheckLimit(ctx, key)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		if !result.Allowed {
			metrics.RateLimited.WithLabelValues("write").Inc()
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			response.SendResponse(c, errno.TooManyRequestsErr, nil)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
