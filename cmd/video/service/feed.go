package service

import (
	"context"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/metrics"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
)

type FeedService struct {
	ctx context.Context
}

func NewFeedService(ctx context.Context) *FeedService {
	return &FeedService{ctx: ctx}
}

// list 解析游标, 查询并记录指标
func (s *FeedService) list(feed string, req *PageRequest, query func(cursor *db.TimeCursor) (db.VideoPage, error)) (db.VideoPage, error) {
	cursor, err := req.TimeCursor()
	if err != nil {
		return db.VideoPage{}, err
	}
	start := time.Now()
	page, err := query(cursor)
	if err != nil {
		return db.VideoPage{}, errors.WithMessagef(err, "dao list %s failed", feed)
	}
	metrics.ObserveFeed(feed, start, len(page.Items))
	return page, nil
}

// ListVideos 首页和用户主页
func (s *FeedService) ListVideos(v viewer.Viewer, req *ListVideosRequest) (db.VideoPage, error) {
	return s.list("videos", &req.PageRequest, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		filter := db.VideoFilter{CategoryId: req.CategoryId, UserId: req.UserId}
		return db.ListVideos(s.ctx, filter, cursor, req.Limit, v)
	})
}

func (s *FeedService) Search(v viewer.Viewer, req *SearchRequest) (db.VideoPage, error) {
	return s.list("search", &req.PageRequest, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		filter := db.VideoFilter{Query: req.Query, CategoryId: req.CategoryId}
		return db.ListVideos(s.ctx, filter, cursor, req.Limit, v)
	})
}

// ListSubscribed 已关注作者的视频
func (s *FeedService) ListSubscribed(v viewer.Viewer, req *PageRequest) (db.VideoPage, error) {
	if err := v.Require(); err != nil {
		return db.VideoPage{}, err
	}
	return s.list("subscriptions", req, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		return db.ListVideos(s.ctx, db.VideoFilter{SubscribedBy: v.UserId}, cursor, req.Limit, v)
	})
}

// ListSuggestions 与源视频同分类的其它视频
func (s *FeedService) ListSuggestions(v viewer.Viewer, req *VideoPageRequest) (db.VideoPage, error) {
	source, err := db.GetVideo(s.ctx, req.VideoId)
	if err != nil {
		return db.VideoPage{}, err
	}
	return s.list("suggestions", &req.PageRequest, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		filter := db.VideoFilter{ExcludeId: source.Id}
		if source.CategoryId != nil {
			filter.CategoryId = *source.CategoryId
		}
		return db.ListVideos(s.ctx, filter, cursor, req.Limit, v)
	})
}

func (s *FeedService) ListPlaylistVideos(v viewer.Viewer, req *PlaylistPageRequest) (db.VideoPage, error) {
	if err := v.Require(); err != nil {
		return db.VideoPage{}, err
	}
	if _, err := db.GetOwnedPlaylist(s.ctx, req.PlaylistId, v.UserId); err != nil {
		return db.VideoPage{}, err
	}
	return s.list("playlist", &req.PageRequest, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		return db.ListVideos(s.ctx, db.VideoFilter{PlaylistId: req.PlaylistId}, cursor, req.Limit, v)
	})
}

func (s *FeedService) ListLiked(v viewer.Viewer, req *PageRequest) (db.VideoPage, error) {
	return s.list("liked", req, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		return db.ListLiked(s.ctx, cursor, req.Limit, v)
	})
}

func (s *FeedService) ListHistory(v viewer.Viewer, req *PageRequest) (db.VideoPage, error) {
	return s.list("history", req, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		return db.ListHistory(s.ctx, cursor, req.Limit, v)
	})
}

// ListStudioVideos 作者自己的全部视频, 包括私有视频
func (s *FeedService) ListStudioVideos(v viewer.Viewer, req *PageRequest) (db.VideoPage, error) {
	return s.list("studio", req, func(cursor *db.TimeCursor) (db.VideoPage, error) {
		return db.ListVideos(s.ctx, db.VideoFilter{OwnerOnly: true}, cursor, req.Limit, v)
	})
}

// ListTrending 按播放量排序, 游标值为播放量
func (s *FeedService) ListTrending(v viewer.Viewer, req *PageRequest) (db.TrendingPage, error) {
	cursor, err := req.CountCursor()
	if err != nil {
		return db.TrendingPage{}, err
	}
	start := time.Now()
	page, err := db.ListTrending(s.ctx, cursor, req.Limit, v)
	if err != nil {
		return db.TrendingPage{}, errors.WithMessage(err, "dao.ListTrending failed")
	}
	metrics.ObserveFeed("trending", start, len(page.Items))
	return page, nil
}

func (s *FeedService) GetVideo(v viewer.Viewer, videoId string) (*db.VideoItem, error) {
	return db.GetVideoItem(s.ctx, videoId, v)
}

func (s *FeedService) GetStudioVideo(v viewer.Viewer, videoId string) (*db.VideoItem, error) {
	return db.GetStudioVideoItem(s.ctx, videoId, v)
}

func (s *FeedService) ListCategories() ([]*model.Category, error) {
	return db.ListCategories(s.ctx)
}
