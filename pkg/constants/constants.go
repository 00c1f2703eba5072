package constants

const (
	ServiceName = "newtube-api"

	VisibilityPublic  = "public"
	VisibilityPrivate = "private"

	ReactionLike    = "like"
	ReactionDislike = "dislike"

	VideoStatusWaiting = "waiting"
	DefaultVideoTitle  = "Untitled"

	MaxCommentLength = 500

	// 数据表
	UserTableName            = "users"
	CategoryTableName        = "categories"
	VideoTableName           = "videos"
	CommentTableName         = "comments"
	VideoReactionTableName   = "video_reactions"
	CommentReactionTableName = "comment_reactions"
	VideoViewTableName       = "video_views"
	SubscriptionTableName    = "subscriptions"
	PlaylistTableName        = "playlists"
	PlaylistVideoTableName   = "playlist_videos"

	// Mux
	MuxImageBaseURL     = "https://image.mux.com"
	MuxSignatureHeader  = "Mux-Signature"
	MuxThumbnailPath    = "thumbnail.jpg"
	MuxPreviewPath      = "animated.gif?width=640"
	MuxSubtitleLanguage = "en"
	MuxSubtitleName     = "English"

	IdentityKey = "identity"
)
