package mux

import (
	"bytes"
	"encoding/json"

	"NewTube.com/pkg/constants"
	"NewTube.com/pkg/errno"
)

const (
	TypeAssetCreated = "video.asset.created"
	TypeAssetReady   = "video.asset.ready"
	TypeAssetErrored = "video.asset.errored"
	TypeAssetDeleted = "video.asset.deleted"
	TypeTrackReady   = "video.asset.track.ready"
)

// Envelope webhook 请求体 {type, data}
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func ParseEnvelope(body []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errno.ParamErr.WithMessage("empty webhook body")
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errno.ParamErr.WithMessage("webhook body is not a JSON object")
	}
	if env.Type == "" || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, errno.ParamErr.WithMessage("webhook body requires type and data")
	}
	return &env, nil
}

// Event 已解码的webhook事件, 只能是本包中定义的类型
type Event interface {
	EventType() string
	event()
}

type AssetCreatedEvent struct {
	UploadId string
	AssetId  string
	Status   string
}

type AssetReadyEvent struct {
	UploadId   string
	AssetId    string
	Status     string
	PlaybackId string
	// 毫秒
	Duration int64
}

type AssetErroredEvent struct {
	UploadId string
	Status   string
}

type AssetDeletedEvent struct {
	UploadId string
	AssetId  string
}

// TrackReadyEvent 字幕轨道就绪, 按 asset id 定位视频
type TrackReadyEvent struct {
	AssetId string
	TrackId string
	Status  string
}

// UnhandledEvent 未知类型, 接受并忽略
type UnhandledEvent struct {
	Type string
}

func (*AssetCreatedEvent) EventType() string { return TypeAssetCreated }
func (*AssetReadyEvent) EventType() string   { return TypeAssetReady }
func (*AssetErroredEvent) EventType() string { return TypeAssetErrored }
func (*AssetDeletedEvent) EventType() string { return TypeAssetDeleted }
func (*TrackReadyEvent) EventType() string   { return TypeTrackReady }
func (e *UnhandledEvent) EventType() string  { return e.Type }

func (*AssetCreatedEvent) event() {}
func (*AssetReadyEvent) event()   {}
func (*AssetErroredEvent) event() {}
func (*AssetDeletedEvent) event() {}
func (*TrackReadyEvent) event()   {}
func (*UnhandledEvent) event()    {}

type eventData struct {
	Id          string       `json:"id"`
	UploadId    string       `json:"upload_id"`
	AssetId     string       `json:"asset_id"`
	Status      string       `json:"status"`
	PlaybackIds []PlaybackId `json:"playback_ids"`
	Duration    float64      `json:"duration"`
}

// DecodeEvent 按type解码data, 并检查该类型必需的字段
func DecodeEvent(env *Envelope) (Event, error) {
	switch env.Type {
	case TypeAssetCreated, TypeAssetReady, TypeAssetErrored, TypeAssetDeleted, TypeTrackReady:
	default:
		return &UnhandledEvent{Type: env.Type}, nil
	}

	var data eventData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errno.ParamErr.WithMessage("malformed data for " + env.Type)
	}

	switch env.Type {
	case TypeAssetCreated:
		if data.UploadId == "" {
			return nil, missing(env.Type, "upload_id")
		}
		return &AssetCreatedEvent{UploadId: data.UploadId, AssetId: data.Id, Status: data.Status}, nil
	case TypeAssetReady:
		if data.UploadId == "" {
			return nil, missing(env.Type, "upload_id")
		}
		if len(data.PlaybackIds) == 0 || data.PlaybackIds[0].Id == "" {
			return nil, missing(env.Type, "playback_ids")
		}
		return &AssetReadyEvent{
			UploadId:   data.UploadId,
			AssetId:    data.Id,
			Status:     data.Status,
			PlaybackId: data.PlaybackIds[0].Id,
			Duration:   DurationMillis(data.Duration),
		}, nil
	case TypeAssetErrored:
		if data.UploadId == "" {
			return nil, missing(env.Type, "upload_id")
		}
		return &AssetErroredEvent{UploadId: data.UploadId, Status: data.Status}, nil
	case TypeAssetDeleted:
		if data.UploadId == "" {
			return nil, missing(env.Type, "upload_id")
		}
		return &AssetDeletedEvent{UploadId: data.UploadId, AssetId: data.Id}, nil
	default:
		if data.AssetId == "" {
			return nil, missing(env.Type, "asset_id")
		}
		return &TrackReadyEvent{AssetId: data.AssetId, TrackId: data.Id, Status: data.Status}, nil
	}
}

func missing(eventType, field string) error {
	return errno.ParamErr.WithMessage(eventType + ": missing " + field)
}

// ThumbnailURL Mux 生成的封面
func ThumbnailURL(playbackId string) string {
	return imageURL(playbackId, constants.MuxThumbnailPath)
}

// PreviewURL Mux 生成的动图预览
func PreviewURL(playbackId string) string {
	return imageURL(playbackId, constants.MuxPreviewPath)
}

func imageURL(playbackId, path string) string {
	return constants.MuxImageBaseURL + "/" + playbackId + "/" + path
}
