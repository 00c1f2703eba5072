package mw

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/jwt"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// ResolveFunc 将令牌中的subject映射为用户id
type ResolveFunc func(ctx context.Context, subject string) (string, error)

// Viewer 解析可选的登录状态, 令牌缺失或无效时按匿名用户处理
func Viewer(verifier *jwt.Verifier, resolve ResolveFunc) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if verifier == nil || len(c.GetHeader("Authorization")) == 0 {
			c.Next(ctx)
			return
		}
		subject, err := verifier.Subject(ctx, c)
		if err != nil {
			hlog.CtxDebugf(ctx, "ignore invalid token: %v", err)
			c.Next(ctx)
			return
		}
		userId, err := resolve(ctx, subject)
		if err != nil {
			if !errno.Is(err, errno.NotFoundErr) {
				hlog.CtxWarnf(ctx, "resolve viewer %s failed: %v", subject, err)
			}
			c.Next(ctx)
			return
		}
		viewer.Set(c, viewer.Of(userId))
		c.Next(ctx)
	}
}

// Required 拒绝匿名请求
func Required() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if err := viewer.FromContext(c).Require(); err != nil {
			response.SendResponse(c, err, nil)
			c.Abort()
			return
		}
		c.Next(ctx)
	}
}
