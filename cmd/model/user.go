package model

import "time"

type User struct {
	Id         string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ExternalId string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	ImageUrl   string    `gorm:"type:varchar(512)" json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Owner 列表查询中附带的作者信息
type Owner struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	ImageUrl string `json:"image_url"`
}

func Models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Video{},
		&Comment{},
		&VideoReaction{},
		&CommentReaction{},
		&VideoView{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
	}
}
