package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/user/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func GetUser(ctx context.Context, c *app.RequestContext) {
	profile, err := service.NewUserService(ctx).GetUser(viewer.FromContext(c), c.Param("user_id"))
	response.SendResponse(c, err, profile)
}
