package model

import "time"

type Category struct {
	Id          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	Name        string    `gorm:"type:varchar(128);uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Video 视频, Mux相关字段由webhook回写
type Video struct {
	Id             string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserId         string    `gorm:"type:char(36);not null;index" json:"user_id"`
	CategoryId     *string   `gorm:"type:char(36);index" json:"category_id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Visibility     string    `gorm:"type:varchar(16);not null;default:private" json:"visibility"`
	MuxStatus      string    `gorm:"type:varchar(32)" json:"mux_status"`
	MuxUploadId    *string   `gorm:"type:varchar(255);uniqueIndex" json:"mux_upload_id"`
	MuxAssetId     *string   `gorm:"type:varchar(255);uniqueIndex" json:"mux_asset_id"`
	MuxPlaybackId  *string   `gorm:"type:varchar(255);uniqueIndex" json:"mux_playback_id"`
	MuxTrackId     *string   `gorm:"type:varchar(255);uniqueIndex" json:"mux_track_id"`
	MuxTrackStatus *string   `gorm:"type:varchar(32)" json:"mux_track_status"`
	ThumbnailUrl   *string   `gorm:"type:varchar(512)" json:"thumbnail_url"`
	ThumbnailKey   *string   `gorm:"type:varchar(255)" json:"thumbnail_key"`
	PreviewUrl     *string   `gorm:"type:varchar(512)" json:"preview_url"`
	PreviewKey     *string   `gorm:"type:varchar(255)" json:"preview_key"`
	Duration       int64     `gorm:"not null;default:0" json:"duration"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`
}

// 收藏夹(播放列表)
type Playlist struct {
	Id          string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserId      string    `gorm:"type:char(36);not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// 收藏夹中的视频, 同一视频在一个收藏夹中只出现一次
type PlaylistVideo struct {
	PlaylistId string    `gorm:"primaryKey;type:char(36)" json:"playlist_id"`
	VideoId    string    `gorm:"primaryKey;type:char(36);index" json:"video_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type VideoView struct {
	UserId    string    `gorm:"primaryKey;type:char(36)" json:"user_id"`
	VideoId   string    `gorm:"primaryKey;type:char(36);index" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
