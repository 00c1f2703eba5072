package service

import (
	"context"
	"strings"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/viewer"
	"github.com/google/uuid"
)

type PlaylistService struct {
	ctx context.Context
}

func NewPlaylistService(ctx context.Context) *PlaylistService {
	return &PlaylistService{ctx: ctx}
}

func (s *PlaylistService) CreatePlaylist(v viewer.Viewer, req *CreatePlaylistRequest) (*model.Playlist, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errno.ParamErr.WithMessage("playlist name must not be empty")
	}
	playlist := &model.Playlist{
		Id:          uuid.NewString(),
		UserId:      v.UserId,
		Name:        name,
		Description: req.Description,
	}
	if err := db.CreatePlaylist(s.ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) RemovePlaylist(v viewer.Viewer, playlistId string) (*model.Playlist, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	return db.DeletePlaylist(s.ctx, playlistId, v.UserId)
}

func (s *PlaylistService) GetPlaylist(v viewer.Viewer, playlistId string) (*db.PlaylistItem, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	return db.GetPlaylistItem(s.ctx, playlistId, v.UserId)
}

func (s *PlaylistService) ListPlaylists(v viewer.Viewer, req *PageRequest) (db.PlaylistPage, error) {
	return s.list(v, "", req)
}

// ListPlaylistsForVideo 每个收藏夹标记是否已包含该视频
func (s *PlaylistService) ListPlaylistsForVideo(v viewer.Viewer, req *VideoPageRequest) (db.PlaylistPage, error) {
	if _, err := db.GetVideoItem(s.ctx, req.VideoId, v); err != nil {
		return db.PlaylistPage{}, err
	}
	return s.list(v, req.VideoId, &req.PageRequest)
}

func (s *PlaylistService) list(v viewer.Viewer, videoId string, req *PageRequest) (db.PlaylistPage, error) {
	if err := v.Require(); err != nil {
		return db.PlaylistPage{}, err
	}
	cursor, err := req.TimeCursor()
	if err != nil {
		return db.PlaylistPage{}, err
	}
	return db.ListPlaylists(s.ctx, v.UserId, videoId, cursor, req.Limit)
}

// AddVideo 收藏夹和视频都必须存在且对当前用户可见
func (s *PlaylistService) AddVideo(v viewer.Viewer, playlistId, videoId string) (*model.PlaylistVideo, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	if _, err := db.GetOwnedPlaylist(s.ctx, playlistId, v.UserId); err != nil {
		return nil, err
	}
	if _, err := db.GetVideoItem(s.ctx, videoId, v); err != nil {
		return nil, err
	}
	return db.AddVideoToPlaylist(s.ctx, playlistId, videoId)
}

func (s *PlaylistService) RemoveVideo(v viewer.Viewer, playlistId, videoId string) error {
	if err := v.Require(); err != nil {
		return err
	}
	if _, err := db.GetOwnedPlaylist(s.ctx, playlistId, v.UserId); err != nil {
		return err
	}
	return db.RemoveVideoFromPlaylist(s.ctx, playlistId, videoId)
}
