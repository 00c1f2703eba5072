package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/video/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func ListVideos(ctx context.Context, c *app.RequestContext) {
	var req service.ListVideosRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListVideos(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func Search(ctx context.Context, c *app.RequestContext) {
	var req service.SearchRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).Search(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func ListTrending(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListTrending(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func ListSubscribed(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListSubscribed(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func ListLiked(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListLiked(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func ListHistory(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListHistory(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func GetVideo(ctx context.Context, c *app.RequestContext) {
	video, err := service.NewFeedService(ctx).GetVideo(viewer.FromContext(c), c.Param("video_id"))
	response.SendResponse(c, err, video)
}

func ListSuggestions(ctx context.Context, c *app.RequestContext) {
	var req service.VideoPageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListSuggestions(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func ListCategories(ctx context.Context, c *app.RequestContext) {
	categories, err := service.NewFeedService(ctx).ListCategories()
	response.SendResponse(c, err, categories)
}
