package service

import (
	"context"

	"NewTube.com/cmd/user/dal/db"
	"NewTube.com/cmd/user/infras/redis"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
)

type UserService struct {
	ctx context.Context
}

func NewUserService(ctx context.Context) *UserService {
	return &UserService{ctx: ctx}
}

func (s *UserService) GetUser(v viewer.Viewer, userId string) (*db.UserProfile, error) {
	profile, err := db.GetUserProfile(s.ctx, userId, v)
	if err != nil {
		return nil, errors.WithMessage(err, "dao.GetUserProfile failed")
	}
	return profile, nil
}

// FindByExternalId 将身份提供方的subject映射为用户id
func (s *UserService) FindByExternalId(externalId string) (string, error) {
	if id := redis.GetUserId(s.ctx, externalId); id != "" {
		return id, nil
	}
	user, err := db.GetUserByExternalId(s.ctx, externalId)
	if err != nil {
		return "", err
	}
	redis.SetUserId(s.ctx, externalId, user.Id)
	return user.Id, nil
}
