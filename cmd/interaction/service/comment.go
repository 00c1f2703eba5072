package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"NewTube.com/cmd/interaction/dal/db"
	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/metrics"
	"NewTube.com/pkg/pagination"
	"NewTube.com/pkg/viewer"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CreateCommentRequest struct {
	VideoId  string  `path:"video_id" vd:"len($)>0"`
	Value    string  `json:"value"`
	ParentId *string `json:"parent_id"`
}

type ListCommentsRequest struct {
	VideoId     string  `path:"video_id" vd:"len($)>0"`
	ParentId    *string `query:"parent_id"`
	CursorId    string  `query:"cursor_id"`
	CursorValue string  `query:"cursor_value"`
	Limit       int     `query:"limit" default:"20" vd:"$>=1&&$<=100"`
}

type CommentListResponse struct {
	Items      []*db.CommentItem `json:"items"`
	NextCursor *db.TimeCursor    `json:"next_cursor"`
	TotalCount int64             `json:"total_count"`
}

type CommentService struct {
	ctx context.Context
}

func NewCommentService(ctx context.Context) *CommentService {
	return &CommentService{ctx: ctx}
}

// validateCommentContent 非空且不超过500个字符
func validateCommentContent(value string) error {
	if strings.TrimSpace(value) == "" {
		return errno.ParamErr.WithMessage("comment must not be empty")
	}
	if utf8.RuneCountInString(value) > constants.MaxCommentLength {
		return errno.ParamErr.WithMessage("comment too long, maximum 500 characters allowed")
	}
	return nil
}

func (s *CommentService) CreateComment(v viewer.Viewer, req *CreateCommentRequest) (*model.Comment, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	if err := validateCommentContent(req.Value); err != nil {
		return nil, err
	}
	exists, err := db.VideoExists(s.ctx, req.VideoId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}

	// 只允许回复同一视频下的顶层评论
	if req.ParentId != nil {
		parent, err := db.GetComment(s.ctx, *req.ParentId)
		if err != nil {
			return nil, err
		}
		if parent.VideoId != req.VideoId {
			return nil, errno.ParamErr.WithMessage("parent comment belongs to another video")
		}
		if parent.ParentId != nil {
			return nil, errno.ParamErr.WithMessage("cannot reply to a reply")
		}
	}

	comment := &model.Comment{
		Id:       uuid.NewString(),
		ParentId: req.ParentId,
		UserId:   v.UserId,
		VideoId:  req.VideoId,
		Value:    req.Value,
	}
	if err := db.CreateComment(s.ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) RemoveComment(v viewer.Viewer, commentId string) (*model.Comment, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	return db.DeleteComment(s.ctx, commentId, v.UserId)
}

// ListComments 分页和总数并行查询
func (s *CommentService) ListComments(v viewer.Viewer, req *ListCommentsRequest) (*CommentListResponse, error) {
	cursor, err := pagination.ParseTimeCursor(req.CursorId, req.CursorValue)
	if err != nil {
		return nil, err
	}
	if err := pagination.CheckLimit(req.Limit); err != nil {
		return nil, err
	}

	start := time.Now()
	var page db.CommentPage
	var total int64
	eg, ctx := errgroup.WithContext(s.ctx)
	eg.Go(func() error {
		var err error
		page, err = db.ListComments(ctx, req.VideoId, req.ParentId, cursor, req.Limit, v)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = db.CountComments(ctx, req.VideoId, req.ParentId)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	metrics.ObserveFeed("comments", start, len(page.Items))
	return &CommentListResponse{Items: page.Items, NextCursor: page.NextCursor, TotalCount: total}, nil
}
