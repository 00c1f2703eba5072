package db

import (
	"context"
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/errno"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func CreateVideo(ctx context.Context, video *model.Video) error {
	if err := DB.WithContext(ctx).Create(video).Error; err != nil {
		return errors.Wrapf(err, "CreateVideo failed,user_id:%s", video.UserId)
	}
	return nil
}

// GetOwnedVideo 视频不存在或不属于该用户时返回NotFound
func GetOwnedVideo(ctx context.Context, videoId, userId string) (*model.Video, error) {
	var video model.Video
	err := DB.WithContext(ctx).Where("id = ? AND user_id = ?", videoId, userId).Take(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetOwnedVideo failed,video_id:%s", videoId)
	}
	return &video, nil
}

// GetVideo 不做可见性检查, 仅供内部使用
func GetVideo(ctx context.Context, videoId string) (*model.Video, error) {
	var video model.Video
	err := DB.WithContext(ctx).Where("id = ?", videoId).Take(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "GetVideo failed,video_id:%s", videoId)
	}
	return &video, nil
}

// UpdateOwnedVideo 更新作者自己的视频并刷新updated_at
func UpdateOwnedVideo(ctx context.Context, videoId, userId string, fields map[string]interface{}) (*model.Video, error) {
	fields["updated_at"] = time.Now().UTC()
	return UpdateOwnedColumns(ctx, videoId, userId, fields)
}

// UpdateOwnedColumns 只写给定的列, 不修改updated_at
func UpdateOwnedColumns(ctx context.Context, videoId, userId string, fields map[string]interface{}) (*model.Video, error) {
	// 先确认归属, mysql 在值未变化时 RowsAffected 为 0
	if _, err := GetOwnedVideo(ctx, videoId, userId); err != nil {
		return nil, err
	}
	err := DB.WithContext(ctx).Model(&model.Video{}).
		Where("id = ? AND user_id = ?", videoId, userId).
		UpdateColumns(fields).Error
	if err != nil {
		return nil, errors.Wrapf(err, "update video failed,video_id:%s", videoId)
	}
	return GetOwnedVideo(ctx, videoId, userId)
}

// DeleteOwnedVideo 返回被删除的记录, 调用方据此清理外部资源.
// 关联记录与视频在同一事务中删除, 失败时视频保留
func DeleteOwnedVideo(ctx context.Context, videoId, userId string) (*model.Video, error) {
	var video model.Video
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", videoId, userId).Take(&video).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errno.NotFoundErr.WithMessage("video not found")
		}
		if err != nil {
			return errors.Wrapf(err, "DeleteOwnedVideo failed,video_id:%s", videoId)
		}
		return deleteVideo(tx, &video)
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// deleteVideo 先删关联记录再删视频, 须在事务中调用
func deleteVideo(tx *gorm.DB, video *model.Video) error {
	if err := deleteVideoDependents(tx, video.Id); err != nil {
		return err
	}
	result := tx.Where("id = ?", video.Id).Delete(&model.Video{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete video failed,video_id:%s", video.Id)
	}
	if result.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage("video not found")
	}
	return nil
}

func deleteVideoDependents(tx *gorm.DB, videoId string) error {
	for _, dependent := range []interface{}{
		&model.VideoReaction{},
		&model.VideoView{},
		&model.PlaylistVideo{},
	} {
		if err := tx.Where("video_id = ?", videoId).Delete(dependent).Error; err != nil {
			return errors.Wrapf(err, "delete %T failed,video_id:%s", dependent, videoId)
		}
	}
	if err := tx.Exec("DELETE FROM comment_reactions WHERE comment_id IN (SELECT id FROM comments WHERE video_id = ?)", videoId).Error; err != nil {
		return errors.Wrapf(err, "delete comment_reactions failed,video_id:%s", videoId)
	}
	if err := tx.Where("video_id = ?", videoId).Delete(&model.Comment{}).Error; err != nil {
		return errors.Wrapf(err, "delete comments failed,video_id:%s", videoId)
	}
	return nil
}

func CategoryExists(ctx context.Context, categoryId string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&model.Category{}).Where("id = ?", categoryId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "CategoryExists failed,category_id:%s", categoryId)
	}
	return count > 0, nil
}

func ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories := make([]*model.Category, 0)
	if err := DB.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "ListCategories failed")
	}
	return categories, nil
}
