package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/interaction/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func VideoReaction(ctx context.Context, c *app.RequestContext) {
	var req service.ReactionRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	req.SubjectId = c.Param("video_id")
	result, err := service.NewReactionService(ctx).ToggleVideoReaction(viewer.FromContext(c), &req)
	response.SendResponse(c, err, result)
}

func CommentReaction(ctx context.Context, c *app.RequestContext) {
	var req service.ReactionRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	req.SubjectId = c.Param("comment_id")
	result, err := service.NewReactionService(ctx).ToggleCommentReaction(viewer.FromContext(c), &req)
	response.SendResponse(c, err, result)
}

func RecordView(ctx context.Context, c *app.RequestContext) {
	view, err := service.NewViewService(ctx).RecordView(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, view)
}
