package service

import (
	"context"

	"NewTube.com/cmd/interaction/dal/db"
	"NewTube.com/cmd/model"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/viewer"
)

type ViewService struct {
	ctx context.Context
}

func NewViewService(ctx context.Context) *ViewService {
	return &ViewService{ctx: ctx}
}

// RecordView 每个用户每个视频只计一次
func (s *ViewService) RecordView(v viewer.Viewer, videoId string) (*model.VideoView, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	exists, err := db.VideoExists(s.ctx, videoId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return db.CreateView(s.ctx, videoId, v.UserId)
}
