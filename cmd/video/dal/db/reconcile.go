package db

import (
	"context"

	"NewTube.com/cmd/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 以下函数由Mux webhook调用, 按外部id定位视频, 不修改updated_at

// FindByUploadId 找不到时返回 nil, nil
func FindByUploadId(ctx context.Context, uploadId string) (*model.Video, error) {
	return findBy(ctx, "mux_upload_id", uploadId)
}

func FindByAssetId(ctx context.Context, assetId string) (*model.Video, error) {
	return findBy(ctx, "mux_asset_id", assetId)
}

func findBy(ctx context.Context, column, value string) (*model.Video, error) {
	var video model.Video
	err := DB.WithContext(ctx).Where(column+" = ?", value).Take(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find video by %s failed,value:%s", column, value)
	}
	return &video, nil
}

// UpdateByUploadId 返回受影响的行数, 0 表示没有匹配的视频
func UpdateByUploadId(ctx context.Context, uploadId string, fields map[string]interface{}) (int64, error) {
	return updateBy(ctx, "mux_upload_id", uploadId, fields)
}

func UpdateByAssetId(ctx context.Context, assetId string, fields map[string]interface{}) (int64, error) {
	return updateBy(ctx, "mux_asset_id", assetId, fields)
}

func updateBy(ctx context.Context, column, value string, fields map[string]interface{}) (int64, error) {
	result := DB.WithContext(ctx).Model(&model.Video{}).Where(column+" = ?", value).UpdateColumns(fields)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "update video by %s failed,value:%s", column, value)
	}
	return result.RowsAffected, nil
}

// DeleteByUploadId 返回被删除的视频, 不存在时返回 nil, nil.
// 任一步失败整体回滚, 重新投递时会再次删除
func DeleteByUploadId(ctx context.Context, uploadId string) (*model.Video, error) {
	var deleted *model.Video
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var video model.Video
		err := tx.Where("mux_upload_id = ?", uploadId).Take(&video).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "DeleteByUploadId failed,upload_id:%s", uploadId)
		}
		if err := deleteVideo(tx, &video); err != nil {
			return err
		}
		deleted = &video
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
