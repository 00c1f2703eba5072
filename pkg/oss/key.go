package oss

// 每个视频的封面和预览使用固定的key, 重复上传覆盖同一对象

func ThumbnailKey(videoId string) string {
	return "videos/" + videoId + "/thumbnail.jpg"
}

func PreviewKey(videoId string) string {
	return "videos/" + videoId + "/preview.gif"
}
