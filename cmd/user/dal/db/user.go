package db

import (
	"context"
	"strings"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/viewer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserProfile 用户主页信息
type UserProfile struct {
	model.User
	SubscriberCount  int64 `json:"subscriber_count"`
	VideoCount       int64 `json:"video_count"`
	ViewerSubscribed bool  `json:"viewer_subscribed"`
}

func GetUserProfile(ctx context.Context, userId string, v viewer.Viewer) (*UserProfile, error) {
	selects := []string{
		"users.*",
		"(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.creator_id = users.id) AS subscriber_count",
		// 主页只统计公开视频
		"(SELECT COUNT(*) FROM videos WHERE videos.user_id = users.id AND videos.visibility = '" + constants.VisibilityPublic + "') AS video_count",
	}
	q := DB.WithContext(ctx).Table(constants.UserTableName)
	if v.Present() {
		q = q.Joins("LEFT JOIN subscriptions AS viewer_subscriptions ON viewer_subscriptions.creator_id = users.id AND viewer_subscriptions.viewer_id = ?", v.UserId)
		selects = append(selects, "viewer_subscriptions.viewer_id IS NOT NULL AS viewer_subscribed")
	} else {
		selects = append(selects, "0 AS viewer_subscribed")
	}

	var rows []*UserProfile
	err := q.Select(strings.Join(selects, ", ")).Where("users.id = ?", userId).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetUserProfile failed,user_id:%s", userId)
	}
	if len(rows) == 0 {
		return nil, errno.NotFoundErr.WithMessage("user not found")
	}
	return rows[0], nil
}

func GetUserByExternalId(ctx context.Context, externalId string) (*model.User, error) {
	var user model.User
	err := DB.WithContext(ctx).Where("external_id = ?", externalId).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("user not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetUserByExternalId failed,external_id:%s", externalId)
	}
	return &user, nil
}
