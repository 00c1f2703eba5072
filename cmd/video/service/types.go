package service

import (
	"time"

	"NewTube.com/cmd/model"
	"NewTube.com/pkg/pagination"
)

// PageRequest 所有列表请求共用的游标参数
type PageRequest struct {
	CursorId    string `query:"cursor_id"`
	CursorValue string `query:"cursor_value"`
	Limit       int    `query:"limit" default:"20" vd:"$>=1&&$<=100"`
}

func (r *PageRequest) TimeCursor() (*pagination.Cursor[time.Time], error) {
	return pagination.ParseTimeCursor(r.CursorId, r.CursorValue)
}

func (r *PageRequest) CountCursor() (*pagination.Cursor[int64], error) {
	return pagination.ParseCountCursor(r.CursorId, r.CursorValue)
}

type ListVideosRequest struct {
	PageRequest
	CategoryId string `query:"category_id"`
	UserId     string `query:"user_id"`
}

type SearchRequest struct {
	PageRequest
	Query      string `query:"query"`
	CategoryId string `query:"category_id"`
}

type VideoPageRequest struct {
	PageRequest
	VideoId string `path:"video_id" vd:"len($)>0"`
}

type PlaylistPageRequest struct {
	PageRequest
	PlaylistId string `path:"playlist_id" vd:"len($)>0"`
}

type UpdateVideoRequest struct {
	VideoId     string  `path:"video_id" vd:"len($)>0"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryId  *string `json:"category_id"`
	Visibility  *string `json:"visibility"`
}

type CreateVideoResponse struct {
	Video     *model.Video `json:"video"`
	UploadUrl string       `json:"upload_url"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
