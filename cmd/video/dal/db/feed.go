package db

import (
	"context"
	"strings"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/pagination"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// VideoItem 列表项: 视频 + 作者 + 聚合计数 + 当前用户的状态
type VideoItem struct {
	model.Video
	Owner                model.Owner `gorm:"embedded;embeddedPrefix:owner_" json:"user"`
	ViewCount            int64       `json:"view_count"`
	LikeCount            int64       `json:"like_count"`
	DislikeCount         int64       `json:"dislike_count"`
	CommentCount         int64       `json:"comment_count"`
	OwnerSubscriberCount int64       `json:"owner_subscriber_count"`
	ViewerReaction       *string     `json:"viewer_reaction"`
	ViewerSubscribed     bool        `json:"viewer_subscribed"`
	LikedAt              *time.Time  `json:"liked_at,omitempty"`
	ViewedAt             *time.Time  `json:"viewed_at,omitempty"`
}

type (
	VideoPage    = pagination.Page[*VideoItem, time.Time]
	TrendingPage = pagination.Page[*VideoItem, int64]
	TimeCursor   = pagination.Cursor[time.Time]
	CountCursor  = pagination.Cursor[int64]
)

const (
	sortUpdatedAt = "videos.updated_at"
	sortVideoId   = "videos.id"

	viewCountExpr = "(SELECT COUNT(*) FROM video_views WHERE video_views.video_id = videos.id)"
)

// VideoFilter 列表过滤条件. 非OwnerOnly时始终只返回公开视频
type VideoFilter struct {
	CategoryId   string
	UserId       string
	Query        string
	ExcludeId    string
	PlaylistId   string
	SubscribedBy string
	// OwnerOnly 只返回当前用户自己的视频(包括私有视频)
	OwnerOnly bool
}

func reactionCountExpr(reactionType string) string {
	return "(SELECT COUNT(*) FROM video_reactions WHERE video_reactions.video_id = videos.id AND video_reactions.type = '" + reactionType + "')"
}

// videoItems 构造带聚合列的基础查询, 查询条数与分页大小无关
func videoItems(ctx context.Context, v viewer.Viewer, extra ...string) *gorm.DB {
	selects := []string{
		"videos.*",
		"users.id AS owner_id",
		"users.name AS owner_name",
		"users.image_url AS owner_image_url",
		viewCountExpr + " AS view_count",
		reactionCountExpr(constants.ReactionLike) + " AS like_count",
		reactionCountExpr(constants.ReactionDislike) + " AS dislike_count",
		"(SELECT COUNT(*) FROM comments WHERE comments.video_id = videos.id) AS comment_count",
		"(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.creator_id = videos.user_id) AS owner_subscriber_count",
	}

	q := DB.WithContext(ctx).Table(constants.VideoTableName).
		Joins("JOIN users ON users.id = videos.user_id")
	if v.Present() {
		q = q.Joins("LEFT JOIN video_reactions AS viewer_reactions ON viewer_reactions.video_id = videos.id AND viewer_reactions.user_id = ?", v.UserId).
			Joins("LEFT JOIN subscriptions AS viewer_subscriptions ON viewer_subscriptions.creator_id = videos.user_id AND viewer_subscriptions.viewer_id = ?", v.UserId)
		selects = append(selects,
			"viewer_reactions.type AS viewer_reaction",
			"(viewer_subscriptions.viewer_id IS NOT NULL) AS viewer_subscribed")
	} else {
		selects = append(selects, "NULL AS viewer_reaction", "0 AS viewer_subscribed")
	}
	selects = append(selects, extra...)
	return q.Select(strings.Join(selects, ", "))
}

func (f VideoFilter) apply(q *gorm.DB, v viewer.Viewer) (*gorm.DB, error) {
	if f.OwnerOnly {
		if err := v.Require(); err != nil {
			return nil, err
		}
		q = q.Where("videos.user_id = ?", v.UserId)
	} else {
		q = q.Where("videos.visibility = ?", constants.VisibilityPublic)
	}
	if f.CategoryId != "" {
		q = q.Where("videos.category_id = ?", f.CategoryId)
	}
	if f.UserId != "" {
		q = q.Where("videos.user_id = ?", f.UserId)
	}
	if f.Query != "" {
		q = q.Where("LOWER(videos.title) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(f.Query))+"%")
	}
	if f.ExcludeId != "" {
		q = q.Where("videos.id <> ?", f.ExcludeId)
	}
	if f.SubscribedBy != "" {
		q = q.Where("videos.user_id IN (SELECT subscriptions.creator_id FROM subscriptions WHERE subscriptions.viewer_id = ?)", f.SubscribedBy)
	}
	if f.PlaylistId != "" {
		q = q.Where("videos.id IN (SELECT playlist_videos.video_id FROM playlist_videos WHERE playlist_videos.playlist_id = ?)", f.PlaylistId)
	}
	return q, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike 转义LIKE通配符, 转义字符为 '!'
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func byUpdatedAt(item *VideoItem) TimeCursor {
	return TimeCursor{Id: item.Id, SortKeyValue: item.UpdatedAt}
}

// ListVideos 按 (updated_at DESC, id DESC) 分页
func ListVideos(ctx context.Context, filter VideoFilter, cursor *TimeCursor, limit int, v viewer.Viewer) (VideoPage, error) {
	if err := pagination.CheckLimit(limit); err != nil {
		return VideoPage{}, err
	}
	q, err := filter.apply(videoItems(ctx, v), v)
	if err != nil {
		return VideoPage{}, err
	}
	var rows []*VideoItem
	q = pagination.Keyset(sortUpdatedAt, sortVideoId, cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return VideoPage{}, errors.Wrapf(err, "ListVideos failed,filter:%+v", filter)
	}
	return pagination.Cut(rows, limit, byUpdatedAt), nil
}

// ListTrending 按播放量排序, 播放量相同时按id
func ListTrending(ctx context.Context, cursor *CountCursor, limit int, v viewer.Viewer) (TrendingPage, error) {
	if err := pagination.CheckLimit(limit); err != nil {
		return TrendingPage{}, err
	}
	q, err := VideoFilter{}.apply(videoItems(ctx, v), v)
	if err != nil {
		return TrendingPage{}, err
	}
	var rows []*VideoItem
	q = pagination.Keyset(viewCountExpr, sortVideoId, cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return TrendingPage{}, errors.Wrap(err, "ListTrending failed")
	}
	return pagination.Cut(rows, limit, func(item *VideoItem) CountCursor {
		return CountCursor{Id: item.Id, SortKeyValue: item.ViewCount}
	}), nil
}

// ListLiked 当前用户点赞过的视频, 按点赞时间排序
func ListLiked(ctx context.Context, cursor *TimeCursor, limit int, v viewer.Viewer) (VideoPage, error) {
	if err := v.Require(); err != nil {
		return VideoPage{}, err
	}
	if err := pagination.CheckLimit(limit); err != nil {
		return VideoPage{}, err
	}
	q := videoItems(ctx, v, "viewer_likes.updated_at AS liked_at").
		Joins("JOIN video_reactions AS viewer_likes ON viewer_likes.video_id = videos.id AND viewer_likes.user_id = ? AND viewer_likes.type = ?", v.UserId, constants.ReactionLike)
	q, err := VideoFilter{}.apply(q, v)
	if err != nil {
		return VideoPage{}, err
	}
	var rows []*VideoItem
	q = pagination.Keyset("viewer_likes.updated_at", sortVideoId, cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return VideoPage{}, errors.Wrap(err, "ListLiked failed")
	}
	return pagination.Cut(rows, limit, func(item *VideoItem) TimeCursor {
		return TimeCursor{Id: item.Id, SortKeyValue: *item.LikedAt}
	}), nil
}

// ListHistory 当前用户的观看记录, 按观看时间排序
func ListHistory(ctx context.Context, cursor *TimeCursor, limit int, v viewer.Viewer) (VideoPage, error) {
	if err := v.Require(); err != nil {
		return VideoPage{}, err
	}
	if err := pagination.CheckLimit(limit); err != nil {
		return VideoPage{}, err
	}
	q := videoItems(ctx, v, "viewer_views.updated_at AS viewed_at").
		Joins("JOIN video_views AS viewer_views ON viewer_views.video_id = videos.id AND viewer_views.user_id = ?", v.UserId)
	q, err := VideoFilter{}.apply(q, v)
	if err != nil {
		return VideoPage{}, err
	}
	var rows []*VideoItem
	q = pagination.Keyset("viewer_views.updated_at", sortVideoId, cursor, limit)(q)
	if err := q.Scan(&rows).Error; err != nil {
		return VideoPage{}, errors.Wrap(err, "ListHistory failed")
	}
	return pagination.Cut(rows, limit, func(item *VideoItem) TimeCursor {
		return TimeCursor{Id: item.Id, SortKeyValue: *item.ViewedAt}
	}), nil
}

// GetVideoItem 公开视频或当前用户自己的视频
func GetVideoItem(ctx context.Context, videoId string, v viewer.Viewer) (*VideoItem, error) {
	var rows []*VideoItem
	err := videoItems(ctx, v).
		Where("videos.id = ?", videoId).
		Where("(videos.visibility = ? OR videos.user_id = ?)", constants.VisibilityPublic, v.UserId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetVideoItem failed,video_id:%s", videoId)
	}
	if len(rows) == 0 {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return rows[0], nil
}

// GetStudioVideoItem 只允许作者本人查看
func GetStudioVideoItem(ctx context.Context, videoId string, v viewer.Viewer) (*VideoItem, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	var rows []*VideoItem
	err := videoItems(ctx, v).
		Where("videos.id = ? AND videos.user_id = ?", videoId, v.UserId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetStudioVideoItem failed,video_id:%s", videoId)
	}
	if len(rows) == 0 {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return rows[0], nil
}
