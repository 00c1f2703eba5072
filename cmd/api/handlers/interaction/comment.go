package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/interaction/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func ListComments(ctx context.Context, c *app.RequestContext) {
	var req service.ListCommentsRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	resp, err := service.NewCommentService(ctx).ListComments(viewer.FromContext(c), &req)
	response.SendResponse(c, err, resp)
}

func CreateComment(ctx context.Context, c *app.RequestContext) {
	var req service.CreateCommentRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	comment, err := service.NewCommentService(ctx).CreateComment(viewer.FromContext(c), &req)
	response.SendResponse(c, err, comment)
}

func RemoveComment(ctx context.Context, c *app.RequestContext) {
	comment, err := service.NewCommentService(ctx).RemoveComment(viewer.FromContext(c), c.Param("comment_id"))
	response.SendResponse(c, err, comment)
}
