package db

import (
	"context"

	"NewTube.com/cmd/model"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// CreateView 同一用户对同一视频只保留第一次的记录
func CreateView(ctx context.Context, videoId, userId string) (*model.VideoView, error) {
	view := &model.VideoView{VideoId: videoId, UserId: userId}
	err := DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(view).Error
	if err != nil {
		return nil, errors.Wrapf(err, "CreateView failed,video_id:%s", videoId)
	}
	var stored model.VideoView
	if err := DB.WithContext(ctx).Where("video_id = ? AND user_id = ?", videoId, userId).Take(&stored).Error; err != nil {
		return nil, errors.Wrapf(err, "load view failed,video_id:%s", videoId)
	}
	return &stored, nil
}

func CountViews(ctx context.Context, videoId string) (count int64, err error) {
	if err := DB.WithContext(ctx).Model(&model.VideoView{}).Where("video_id = ?", videoId).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "CountViews failed,video_id:%s", videoId)
	}
	return count, nil
}

func VideoExists(ctx context.Context, videoId string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "VideoExists failed,video_id:%s", videoId)
	}
	return count > 0, nil
}
