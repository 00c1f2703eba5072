package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/relation/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func Subscribe(ctx context.Context, c *app.RequestContext) {
	sub, err := service.NewSubscriptionService(ctx).Subscribe(viewer.FromContext(c), c.Param("user_id"))
	response.SendResponse(c, err, sub)
}

func Unsubscribe(ctx context.Context, c *app.RequestContext) {
	err := service.NewSubscriptionService(ctx).Unsubscribe(viewer.FromContext(c), c.Param("user_id"))
	response.SendResponse(c, err, nil)
}

func ListSubscriptions(ctx context.Context, c *app.RequestContext) {
	var req service.ListSubscriptionsRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewSubscriptionService(ctx).ListSubscriptions(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}
