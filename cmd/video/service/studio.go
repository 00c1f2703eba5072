package service

import (
	"context"
	"strings"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
	"NewTube.com/pkg/viewer"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StudioService 作者对自己视频的操作
type StudioService struct {
	ctx context.Context
}

func NewStudioService(ctx context.Context) *StudioService {
	return &StudioService{ctx: ctx}
}

// CreateVideo 在Mux创建直传地址并写入一条等待上传的视频
func (s *StudioService) CreateVideo(v viewer.Viewer) (*CreateVideoResponse, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	upload, err := deps.Pipeline.CreateUpload(s.ctx, v.UserId)
	if err != nil {
		hlog.CtxErrorf(s.ctx, "stack trace: \n%+v\n", err)
		return nil, err
	}

	video := &model.Video{
		Id:          uuid.NewString(),
		UserId:      v.UserId,
		Title:       constants.DefaultVideoTitle,
		Visibility:  constants.VisibilityPrivate,
		MuxStatus:   constants.VideoStatusWaiting,
		MuxUploadId: &upload.Id,
	}
	if err := db.CreateVideo(s.ctx, video); err != nil {
		return nil, err
	}
	publishVideoEvent(s.ctx, mq.NewVideoEvent(mq.VideoEventCreated, video.Id, video.UserId))
	return &CreateVideoResponse{Video: video, UploadUrl: upload.Url}, nil
}

func (s *StudioService) UpdateVideo(v viewer.Viewer, req *UpdateVideoRequest) (*model.Video, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errno.ParamErr.WithMessage("title must not be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Visibility != nil {
		switch *req.Visibility {
		case constants.VisibilityPublic, constants.VisibilityPrivate:
			fields["visibility"] = *req.Visibility
		default:
			return nil, errno.ParamErr.WithMessage("visibility must be public or private")
		}
	}
	if req.CategoryId != nil {
		if *req.CategoryId == "" {
			fields["category_id"] = nil
		} else {
			ok, err := db.CategoryExists(s.ctx, *req.CategoryId)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errno.NotFoundErr.WithMessage("category not found")
			}
			fields["category_id"] = *req.CategoryId
		}
	}

	video, err := db.UpdateOwnedVideo(s.ctx, req.VideoId, v.UserId, fields)
	if err != nil {
		return nil, err
	}
	publishVideoEvent(s.ctx, mq.NewVideoEvent(mq.VideoEventUpdated, video.Id, video.UserId))
	return video, nil
}

// RemoveVideo 删除视频, 封面和预览尽力删除
func (s *StudioService) RemoveVideo(v viewer.Viewer, videoId string) (*model.Video, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	video, err := db.DeleteOwnedVideo(s.ctx, videoId, v.UserId)
	if err != nil {
		return nil, err
	}
	deleteBlobs(s.ctx, video.ThumbnailKey, video.PreviewKey)
	publishVideoEvent(s.ctx, mq.NewVideoEvent(mq.VideoEventDeleted, video.Id, video.UserId))
	return video, nil
}

// RevalidateVideo 从Mux拉取最新的资源状态
func (s *StudioService) RevalidateVideo(v viewer.Viewer, videoId string) (*model.Video, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	video, err := db.GetOwnedVideo(s.ctx, videoId, v.UserId)
	if err != nil {
		return nil, err
	}
	if video.MuxUploadId == nil {
		return nil, errno.ParamErr.WithMessage("video has no upload")
	}

	upload, err := deps.Pipeline.RetrieveUpload(s.ctx, *video.MuxUploadId)
	if errors.Is(err, mux.ErrNotFound) || (err == nil && upload.AssetId == "") {
		return nil, errno.ParamErr.WithMessage("upload has no asset yet")
	}
	if err != nil {
		return nil, err
	}
	asset, err := deps.Pipeline.RetrieveAsset(s.ctx, upload.AssetId)
	if errors.Is(err, mux.ErrNotFound) {
		return nil, errno.ParamErr.WithMessage("asset not found")
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"mux_status":   asset.Status,
		"mux_asset_id": asset.Id,
		"duration":     asset.DurationMillis(),
	}
	if pid := asset.PlaybackId(); pid != "" {
		fields["mux_playback_id"] = pid
	}
	return db.UpdateOwnedColumns(s.ctx, videoId, v.UserId, fields)
}

// RestoreThumbnail 丢弃自定义封面, 重新使用Mux生成的封面
func (s *StudioService) RestoreThumbnail(v viewer.Viewer, videoId string) (*model.Video, error) {
	if err := v.Require(); err != nil {
		return nil, err
	}
	video, err := db.GetOwnedVideo(s.ctx, videoId, v.UserId)
	if err != nil {
		return nil, err
	}

	if video.ThumbnailKey != nil {
		if err := deps.Blobs.Delete(s.ctx, *video.ThumbnailKey); err != nil {
			hlog.CtxErrorf(s.ctx, "stack trace: \n%+v\n", err)
			return nil, errno.ExternalServiceErr.WithMessage("delete thumbnail failed")
		}
		video, err = db.UpdateOwnedColumns(s.ctx, videoId, v.UserId, map[string]interface{}{
			"thumbnail_key": nil,
			"thumbnail_url": nil,
		})
		if err != nil {
			return nil, err
		}
	}

	if video.MuxPlaybackId == nil {
		return nil, errno.ParamErr.WithMessage("video has no playback id")
	}
	file, err := deps.Blobs.UploadFromURL(s.ctx, mux.ThumbnailURL(*video.MuxPlaybackId), oss.ThumbnailKey(video.Id))
	if err != nil {
		hlog.CtxErrorf(s.ctx, "stack trace: \n%+v\n", err)
		return nil, errno.ExternalServiceErr.WithMessage("upload thumbnail failed")
	}
	return db.UpdateOwnedColumns(s.ctx, videoId, v.UserId, map[string]interface{}{
		"thumbnail_key": file.Key,
		"thumbnail_url": file.Url,
	})
}

// deleteBlobs 尽力删除, 失败只记录日志
func deleteBlobs(ctx context.Context, keys ...*string) {
	var names []string
	for _, k := range keys {
		if k != nil && *k != "" {
			names = append(names, *k)
		}
	}
	if len(names) == 0 || deps.Blobs == nil {
		return
	}
	if err := deps.Blobs.Delete(ctx, names...); err != nil {
		hlog.CtxWarnf(ctx, "delete blobs %v failed: %v", names, err)
	}
}

func publishVideoEvent(ctx context.Context, event *mq.VideoEvent) {
	if err := deps.Publisher.PublishVideoEvent(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish video event failed: %v", err)
	}
}
