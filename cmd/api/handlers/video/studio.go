package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/video/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func ListStudioVideos(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListStudioVideos(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func GetStudioVideo(ctx context.Context, c *app.RequestContext) {
	video, err := service.NewFeedService(ctx).GetStudioVideo(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, video)
}

func CreateVideo(ctx context.Context, c *app.RequestContext) {
	resp, err := service.NewStudioService(ctx).CreateVideo(viewer.FromContext(c))
	response.SendResponse(c, err, resp)
}

func UpdateVideo(ctx context.Context, c *app.RequestContext) {
	var req service.UpdateVideoRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	video, err := service.NewStudioService(ctx).UpdateVideo(viewer.FromContext(c), &req)
	response.SendResponse(c, err, video)
}

func RemoveVideo(ctx context.Context, c *app.RequestContext) {
	video, err := service.NewStudioService(ctx).RemoveVideo(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, video)
}

func RevalidateVideo(ctx context.Context, c *app.RequestContext) {
	video, err := service.NewStudioService(ctx).RevalidateVideo(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, video)
}

func RestoreThumbnail(ctx context.Context, c *app.RequestContext) {
	video, err := service.NewStudioService(ctx).RestoreThumbnail(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, video)
}
