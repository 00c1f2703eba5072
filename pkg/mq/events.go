package mq

import (
	"time"

	"github.com/google/uuid"
)

// VideoEvent 视频状态变化, 由webhook和作者操作产生
type VideoEvent struct {
	EventId   string `json:"event_id"`
	Type      string `json:"type"` // 见 VideoEvent* 常量
	VideoId   string `json:"video_id"`
	UserId    string `json:"user_id"`
	Status    string `json:"status,omitempty"`
	Source    string `json:"source,omitempty"` // webhook 事件类型
	Timestamp int64  `json:"timestamp"`
}

// ReactionEvent 点赞/点踩的设置与取消
type ReactionEvent struct {
	EventId   string `json:"event_id"`
	Subject   string `json:"subject"` // video, comment
	SubjectId string `json:"subject_id"`
	UserId    string `json:"user_id"`
	Type      string `json:"type"`
	Removed   bool   `json:"removed"`
	Timestamp int64  `json:"timestamp"`
}

const (
	VideoEventCreated  = "created"
	VideoEventUpdated  = "updated"
	VideoEventReady    = "ready"
	VideoEventErrored  = "errored"
	VideoEventDeleted  = "deleted"
	VideoEventTrack    = "track_ready"
	VideoEventUploaded = "asset_created"

	// 交换机名称
	VideoEventExchange    = "video_events"
	ReactionEventExchange = "reaction_events"

	// 队列名称
	VideoEventQueue    = "video_event_queue"
	ReactionEventQueue = "reaction_event_queue"
)

func NewVideoEvent(eventType, videoId, userId string) *VideoEvent {
	return &VideoEvent{
		EventId:   uuid.NewString(),
		Type:      eventType,
		VideoId:   videoId,
		UserId:    userId,
		Timestamp: time.Now().Unix(),
	}
}

func NewReactionEvent(subject, subjectId, userId, reactionType string, removed bool) *ReactionEvent {
	return &ReactionEvent{
		EventId:   uuid.NewString(),
		Subject:   subject,
		SubjectId: subjectId,
		UserId:    userId,
		Type:      reactionType,
		Removed:   removed,
		Timestamp: time.Now().Unix(),
	}
}
