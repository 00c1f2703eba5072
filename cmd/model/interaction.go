package model

import "time"

type Comment struct {
	Id        string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ParentId  *string   `gorm:"type:char(36);index" json:"parent_id"`
	UserId    string    `gorm:"type:char(36);not null" json:"user_id"`
	VideoId   string    `gorm:"type:char(36);not null;index" json:"video_id"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VideoReaction 每个用户对一个视频最多一条记录
type VideoReaction struct {
	UserId    string    `gorm:"primaryKey;type:char(36)" json:"user_id"`
	VideoId   string    `gorm:"primaryKey;type:char(36);index" json:"video_id"`
	Type      string    `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentReaction struct {
	UserId    string    `gorm:"primaryKey;type:char(36)" json:"user_id"`
	CommentId string    `gorm:"primaryKey;type:char(36);index" json:"comment_id"`
	Type      string    `gorm:"type:varchar(16);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reaction 视频/评论点赞的统一视图
type Reaction struct {
	SubjectId string    `json:"subject_id"`
	UserId    string    `json:"user_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
