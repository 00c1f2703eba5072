package model

import "time"

// Subscription 关注关系, ViewerId 关注 CreatorId
type Subscription struct {
	ViewerId  string    `gorm:"primaryKey;type:char(36)" json:"viewer_id"`
	CreatorId string    `gorm:"primaryKey;type:char(36);index" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
