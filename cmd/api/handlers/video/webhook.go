package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/video/service"
	"NewTube.com/pkg/constants"
	"github.com/cloudwego/hertz/pkg/app"
)

// Webhook Mux 回调入口, 签名校验失败时不处理任何内容
func Webhook(ctx context.Context, c *app.RequestContext) {
	signature := string(c.GetHeader(constants.MuxSignatureHeader))
	err := service.NewWebhookService(ctx).Receive(signature, c.Request.Body())
	response.SendResponse(c, err, nil)
}
