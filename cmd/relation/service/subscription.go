package service

import (
	"context"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/relation/dal/db"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/pagination"
	"NewTube.com/pkg/viewer"
)

type ListSubscriptionsRequest struct {
	CursorId    string `query:"cursor_id"`
	CursorValue string `query:"cursor_value"`
	Limit       int    `query:"limit" default:"20" vd:"$>=1&&$<=100"`
}

type SubscriptionService struct {
	ctx context.Context
}

func NewSubscriptionService(ctx context.Context) *SubscriptionService {
	return &SubscriptionService{ctx: ctx}
}

// Subscribe 重复关注返回已有记录
func (s *SubscriptionService) Subscribe(v viewer.Viewer, creatorId string) (*model.Subscription, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	if creatorId == v.UserId {
		return nil, errno.ParamErr.WithMessage("cannot subscribe to yourself")
	}
	exists, err := db.UserExists(s.ctx, creatorId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage("creator not found")
	}
	return db.CreateSubscription(s.ctx, v.UserId, creatorId)
}

func (s *SubscriptionService) Unsubscribe(v viewer.Viewer, creatorId string) error {
	if err := v.Require(); err != nil {
		return err
	}
	return db.DeleteSubscription(s.ctx, v.UserId, creatorId)
}

func (s *SubscriptionService) ListSubscriptions(v viewer.Viewer, req *ListSubscriptionsRequest) (db.SubscriptionPage, error) {
	if err := v.Require(); err != nil {
		return db.SubscriptionPage{}, err
	}
	cursor, err := pagination.ParseTimeCursor(req.CursorId, req.CursorValue)
	if err != nil {
		return db.SubscriptionPage{}, err
	}
	return db.ListSubscriptions(s.ctx, v.UserId, cursor, req.Limit)
}
