package service

import (
	"context"

	"NewTube.com/cmd/model"
	"NewTube.com/cmd/video/dal/db"
	"NewTube.com/pkg/errno"
	"NewTube.com/pkg/metrics"
	"NewTube.com/pkg/mq"
	"NewTube.com/pkg/mux"
	"NewTube.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// WebhookService 将Mux的异步事件合并到视频记录中.
// 事件可能乱序或重复投递, 每个处理都可以安全重放
type WebhookService struct {
	ctx context.Context
}

func NewWebhookService(ctx context.Context) *WebhookService {
	return &WebhookService{ctx: ctx}
}

// Receive 校验签名并处理一次投递
func (s *WebhookService) Receive(signature string, body []byte) error {
	if signature == "" {
		metrics.WebhookEvents.WithLabelValues("", "rejected").Inc()
		return errno.SignatureErr.WithMessage("missing signature header")
	}
	env, err := mux.ParseEnvelope(body)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("", "rejected").Inc()
		return err
	}
	if err := mux.VerifySignature(signature, body, deps.WebhookSecret, deps.SignatureTolerance, deps.Now()); err != nil {
		metrics.WebhookEvents.WithLabelValues(env.Type, "rejected").Inc()
		return err
	}
	event, err := mux.DecodeEvent(env)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(env.Type, "rejected").Inc()
		return err
	}
	return s.Handle(event)
}

// Handle 按事件类型分发
func (s *WebhookService) Handle(event mux.Event) error {
	var applied bool
	var err error
	switch e := event.(type) {
	case *mux.AssetCreatedEvent:
		applied, err = s.assetCreated(e)
	case *mux.AssetReadyEvent:
		applied, err = s.assetReady(e)
	case *mux.AssetErroredEvent:
		applied, err = s.assetErrored(e)
	case *mux.AssetDeletedEvent:
		applied, err = s.assetDeleted(e)
	case *mux.TrackReadyEvent:
		applied, err = s.trackReady(e)
	case *mux.UnhandledEvent:
		hlog.CtxInfof(s.ctx, "ignore webhook event %s", e.Type)
	}

	outcome := "ignored"
	switch {
	case err != nil:
		outcome = "failed"
		hlog.CtxErrorf(s.ctx, "handle webhook event %s failed: %+v", event.EventType(), err)
	case applied:
		outcome = "applied"
	}
	metrics.WebhookEvents.WithLabelValues(event.EventType(), outcome).Inc()
	return err
}

func (s *WebhookService) assetCreated(e *mux.AssetCreatedEvent) (bool, error) {
	video, err := db.FindByUploadId(s.ctx, e.UploadId)
	if err != nil || video == nil {
		s.logMissing(e, e.UploadId, err)
		return false, err
	}
	fields := map[string]interface{}{"mux_status": e.Status}
	if e.AssetId != "" {
		fields["mux_asset_id"] = e.AssetId
	}
	if _, err := db.UpdateByUploadId(s.ctx, e.UploadId, fields); err != nil {
		return false, err
	}
	s.publish(video, mq.VideoEventUploaded, e.Status, e)
	return true, nil
}

// assetReady 状态先写入; 封面和预览都上传成功后才写入 playback id
func (s *WebhookService) assetReady(e *mux.AssetReadyEvent) (bool, error) {
	video, err := db.FindByUploadId(s.ctx, e.UploadId)
	if err != nil || video == nil {
		s.logMissing(e, e.UploadId, err)
		return false, err
	}

	status := map[string]interface{}{"mux_status": e.Status}
	if e.AssetId != "" {
		status["mux_asset_id"] = e.AssetId
	}
	if _, err := db.UpdateByUploadId(s.ctx, e.UploadId, status); err != nil {
		return false, err
	}

	thumbnail, err := deps.Blobs.UploadFromURL(s.ctx, mux.ThumbnailURL(e.PlaybackId), oss.ThumbnailKey(video.Id))
	if err != nil {
		hlog.CtxErrorf(s.ctx, "stack trace: \n%+v\n", err)
		return false, errno.ExternalServiceErr.WithMessage("upload thumbnail failed")
	}
	preview, err := deps.Blobs.UploadFromURL(s.ctx, mux.PreviewURL(e.PlaybackId), oss.PreviewKey(video.Id))
	if err != nil {
		hlog.CtxErrorf(s.ctx, "stack trace: \n%+v\n", err)
		return false, errno.ExternalServiceErr.WithMessage("upload preview failed")
	}

	_, err = db.UpdateByUploadId(s.ctx, e.UploadId, map[string]interface{}{
		"mux_playback_id": e.PlaybackId,
		"thumbnail_url":   thumbnail.Url,
		"thumbnail_key":   thumbnail.Key,
		"preview_url":     preview.Url,
		"preview_key":     preview.Key,
		"duration":        e.Duration,
	})
	if err != nil {
		return false, err
	}

	deleteBlobs(s.ctx, superseded(video.ThumbnailKey, thumbnail.Key), superseded(video.PreviewKey, preview.Key))
	s.publish(video, mq.VideoEventReady, e.Status, e)
	return true, nil
}

func (s *WebhookService) assetErrored(e *mux.AssetErroredEvent) (bool, error) {
	video, err := db.FindByUploadId(s.ctx, e.UploadId)
	if err != nil || video == nil {
		s.logMissing(e, e.UploadId, err)
		return false, err
	}
	if _, err := db.UpdateByUploadId(s.ctx, e.UploadId, map[string]interface{}{"mux_status": e.Status}); err != nil {
		return false, err
	}
	s.publish(video, mq.VideoEventErrored, e.Status, e)
	return true, nil
}

// assetDeleted 对已删除的视频重放时不做任何事
func (s *WebhookService) assetDeleted(e *mux.AssetDeletedEvent) (bool, error) {
	video, err := db.DeleteByUploadId(s.ctx, e.UploadId)
	if err != nil || video == nil {
		s.logMissing(e, e.UploadId, err)
		return false, err
	}
	deleteBlobs(s.ctx, video.ThumbnailKey, video.PreviewKey)
	s.publish(video, mq.VideoEventDeleted, "", e)
	return true, nil
}

// trackReady 字幕轨道按 asset id 定位
func (s *WebhookService) trackReady(e *mux.TrackReadyEvent) (bool, error) {
	video, err := db.FindByAssetId(s.ctx, e.AssetId)
	if err != nil || video == nil {
		s.logMissing(e, e.AssetId, err)
		return false, err
	}
	fields := map[string]interface{}{
		"mux_track_id":     e.TrackId,
		"mux_track_status": e.Status,
	}
	if _, err := db.UpdateByAssetId(s.ctx, e.AssetId, fields); err != nil {
		return false, err
	}
	s.publish(video, mq.VideoEventTrack, e.Status, e)
	return true, nil
}

func (s *WebhookService) logMissing(e mux.Event, key string, err error) {
	if err == nil {
		hlog.CtxInfof(s.ctx, "webhook %s: no video for %s, skipped", e.EventType(), key)
	}
}

func (s *WebhookService) publish(video *model.Video, eventType, status string, e mux.Event) {
	event := mq.NewVideoEvent(eventType, video.Id, video.UserId)
	event.Status = status
	event.Source = e.EventType()
	publishVideoEvent(s.ctx, event)
}

// superseded 旧key与新key不同时返回旧key
func superseded(old *string, current string) *string {
	if old == nil || *old == current {
		return nil
	}
	return old
}
