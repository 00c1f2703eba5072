package service

import (
	"context"

	"NewTube.com/cmd/interaction/dal/db"
	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/metrics"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type ReactionRequest struct {
	SubjectId string `json:"-"`
	Type      string `json:"type" vd:"$=='like'||$=='dislike'"`
}

// ReactionResult Removed 为 true 时 Reaction 是被删除的记录
type ReactionResult struct {
	Reaction *model.Reaction `json:"reaction"`
	Removed  bool            `json:"removed"`
}

type ReactionService struct {
	ctx context.Context
}

func NewReactionService(ctx context.Context) *ReactionService {
	return &ReactionService{ctx: ctx}
}

func (s *ReactionService) ToggleVideoReaction(v viewer.Viewer, req *ReactionRequest) (*ReactionResult, error) {
	return s.toggle(v, db.VideoReactions, "video", req)
}

func (s *ReactionService) ToggleCommentReaction(v viewer.Viewer, req *ReactionRequest) (*ReactionResult, error) {
	return s.toggle(v, db.CommentReactions, "comment", req)
}

// toggle 点赞和点踩走同一条规则
func (s *ReactionService) toggle(v viewer.Viewer, table db.ReactionTable, subject string, req *ReactionRequest) (*ReactionResult, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	if req.Type != constants.ReactionLike && req.Type != constants.ReactionDislike {
		return nil, errno.ParamErr.WithMessage("reaction type must be like or dislike")
	}
	exists, err := db.SubjectExists(s.ctx, table, req.SubjectId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage(subject + " not found")
	}

	reaction, removed, err := db.ToggleReaction(s.ctx, table, req.SubjectId, v.UserId, req.Type)
	if err != nil {
		return nil, errors.WithMessage(err, "toggle reaction failed")
	}

	outcome := "set"
	if removed {
		outcome = "removed"
	}
	metrics.ReactionToggles.WithLabelValues(subject, req.Type, outcome).Inc()
	event := mq.NewReactionEvent(subject, req.SubjectId, v.UserId, req.Type, removed)
	if err := publisher.PublishReactionEvent(s.ctx, event); err != nil {
		hlog.CtxWarnf(s.ctx, "publish reaction event failed: %v", err)
	}
	return &ReactionResult{Reaction: reaction, Removed: removed}, nil
}
