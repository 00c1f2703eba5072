package db

import (
	"context"
	"strings"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/pagination"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PlaylistItem 收藏夹列表项
type PlaylistItem struct {
	model.Playlist
	Owner         model.Owner `gorm:"embedded;embeddedPrefix:owner_" json:"user"`
	VideoCount    int64       `json:"video_count"`
	ThumbnailUrl  *string     `json:"thumbnail_url"`
	ContainsVideo bool        `json:"contains_video"`
}

type PlaylistPage = pagination.Page[*PlaylistItem, time.Time]

const (
	sortPlaylistUpdatedAt = "playlists.updated_at"
	sortPlaylistId        = "playlists.id"
)

func playlistItems(ctx context.Context, videoId string) *gorm.DB {
	selects := []string{
		"playlists.*",
		"users.id AS owner_id",
		"users.name AS owner_name",
		"users.image_url AS owner_image_url",
		"(SELECT COUNT(*) FROM playlist_videos WHERE playlist_videos.playlist_id = playlists.id) AS video_count",
		// 最近加入的视频作为封面
		"(SELECT videos.thumbnail_url FROM playlist_videos JOIN videos ON videos.id = playlist_videos.video_id" +
			" WHERE playlist_videos.playlist_id = playlists.id ORDER BY playlist_videos.updated_at DESC, playlist_videos.video_id DESC LIMIT 1) AS thumbnail_url",
	}
	q := DB.WithContext(ctx).Table(constants.PlaylistTableName).
		Joins("JOIN users ON users.id = playlists.user_id")
	if videoId == "" {
		return q.Select(strings.Join(append(selects, "0 AS contains_video"), ", "))
	}
	selects = append(selects, "EXISTS (SELECT 1 FROM playlist_videos WHERE playlist_videos.playlist_id = playlists.id AND playlist_videos.video_id = ?) AS contains_video")
	return q.Select(strings.Join(selects, ", "), videoId)
}

func CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	if err := DB.WithContext(ctx).Create(playlist).Error; err != nil {
		return errors.Wrapf(err, "CreatePlaylist failed,user_id:%s", playlist.UserId)
	}
	return nil
}

// ListPlaylists 用户的收藏夹, videoId 非空时标记是否包含该视频
func ListPlaylists(ctx context.Context, userId, videoId string, cursor *TimeCursor, limit int) (PlaylistPage, error) {
	if err := pagination.CheckLimit(limit); err != nil {
		return PlaylistPage{}, err
	}
	var rows []*PlaylistItem
	q := playlistItems(ctx, videoId).Where("playlists.user_id = ?", userId)
	q = pagination.Keyset(sortPlaylistUpdatedAt, sortPlaylistId, cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return PlaylistPage{}, errors.Wrapf(err, "ListPlaylists failed,user_id:%s", userId)
	}
	return pagination.Cut(rows, limit, func(item *PlaylistItem) TimeCursor {
		return TimeCursor{Id: item.Id, SortKeyValue: item.UpdatedAt}
	}), nil
}

func GetPlaylistItem(ctx context.Context, playlistId, userId string) (*PlaylistItem, error) {
	var rows []*PlaylistItem
	err := playlistItems(ctx, "").
		Where("playlists.id = ? AND playlists.user_id = ?", playlistId, userId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetPlaylistItem failed,playlist_id:%s", playlistId)
	}
	if len(rows) == 0 {
		return nil, errno.NotFoundErr.WithMessage("playlist not found")
	}
	return rows[0], nil
}

func GetOwnedPlaylist(ctx context.Context, playlistId, userId string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := DB.WithContext(ctx).Where("id = ? AND user_id = ?", playlistId, userId).Take(&playlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("playlist not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetOwnedPlaylist failed,playlist_id:%s", playlistId)
	}
	return &playlist, nil
}

// DeletePlaylist 收藏夹与其中的条目一起删除
func DeletePlaylist(ctx context.Context, playlistId, userId string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", playlistId, userId).Take(&playlist).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errno.NotFoundErr.WithMessage("playlist not found")
		}
		if err != nil {
			return errors.Wrapf(err, "DeletePlaylist failed,playlist_id:%s", playlistId)
		}
		if err := tx.Where("playlist_id = ?", playlistId).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return errors.Wrapf(err, "delete playlist videos failed,playlist_id:%s", playlistId)
		}
		if err := tx.Where("id = ?", playlistId).Delete(&model.Playlist{}).Error; err != nil {
			return errors.Wrapf(err, "DeletePlaylist failed,playlist_id:%s", playlistId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddVideoToPlaylist 已存在时返回Conflict
func AddVideoToPlaylist(ctx context.Context, playlistId, videoId string) (*model.PlaylistVideo, error) {
	entry := &model.PlaylistVideo{PlaylistId: playlistId, VideoId: videoId}
	err := DB.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errno.ConflictErr.WithMessage("video already in playlist")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "AddVideoToPlaylist failed,playlist_id:%s", playlistId)
	}
	return entry, touchPlaylist(ctx, playlistId)
}

// RemoveVideoFromPlaylist 不存在时返回NotFound
func RemoveVideoFromPlaylist(ctx context.Context, playlistId, videoId string) error {
	result := DB.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistId, videoId).
		Delete(&model.PlaylistVideo{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "RemoveVideoFromPlaylist failed,playlist_id:%s", playlistId)
	}
	if result.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage("video not in playlist")
	}
	return touchPlaylist(ctx, playlistId)
}

func touchPlaylist(ctx context.Context, playlistId string) error {
	err := DB.WithContext(ctx).Model(&model.Playlist{}).
		Where("id = ?", playlistId).
		UpdateColumn("updated_at", time.Now().UTC()).Error
	return errors.Wrapf(err, "touch playlist failed,playlist_id:%s", playlistId)
}
