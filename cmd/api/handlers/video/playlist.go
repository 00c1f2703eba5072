package handlers

import (
	"context"

	"NewTube.com/cmd/api/handlers/response"
	"NewTube.com/cmd/video/service"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/app"
)

func CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	var req service.CreatePlaylistRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	playlist, err := service.NewPlaylistService(ctx).CreatePlaylist(viewer.FromContext(c), &req)
	response.SendResponse(c, err, playlist)
}

func ListPlaylists(ctx context.Context, c *app.RequestContext) {
	var req service.PageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewPlaylistService(ctx).ListPlaylists(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

// ListPlaylistsForVideo 标记每个收藏夹是否包含该视频
func ListPlaylistsForVideo(ctx context.Context, c *app.RequestContext) {
	var req service.VideoPageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewPlaylistService(ctx).ListPlaylistsForVideo(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func GetPlaylist(ctx context.Context, c *app.RequestContext) {
	playlist, err := service.NewPlaylistService(ctx).GetPlaylist(viewer.FromContext(c), c.Param("playlist_id"))
	response.SendResponse(c, err, playlist)
}

func RemovePlaylist(ctx context.Context, c *app.RequestContext) {
	playlist, err := service.NewPlaylistService(ctx).RemovePlaylist(viewer.FromContext(c), c.Param("playlist_id"))
	response.SendResponse(c, err, playlist)
}

func ListPlaylistVideos(ctx context.Context, c *app.RequestContext) {
	var req service.PlaylistPageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(c, err)
		return
	}
	page, err := service.NewFeedService(ctx).ListPlaylistVideos(viewer.FromContext(c), &req)
	response.SendResponse(c, err, page)
}

func AddPlaylistVideo(ctx context.Context, c *app.RequestContext) {
	entry, err := service.NewPlaylistService(ctx).AddVideo(viewer.FromContext(c), c.Param("playlist_id"), c.Param("video_id"))
	response.SendResponse(c, err, entry)
}

func RemovePlaylistVideo(ctx context.Context, c *app.RequestContext) {
	err := service.NewPlaylistService(ctx).RemoveVideo(viewer.FromContext(c), c.Param("playlist_id"), c.Param("video_id"))
	response.SendResponse(c, err, nil)
}
