package main

import (
	"context"

	interaction "NewTube.com/cmd/api/handlers/interaction"
	relation "NewTube.com/cmd/api/handlers/relation"
	user "NewTube.com/cmd/api/handlers/user"
	video "NewTube.com/cmd/api/handlers/video"
	"NewTube.com/cmd/api/mw"
	"NewTube.com/pkg/jwt"
	"NewTube.com/pkg/security"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
)

type routerDeps struct {
	verifier *jwt.Verifier
	resolve  mw.ResolveFunc
	limiter  *security.RateLimiter
}

func register(r *route.Engine, d routerDeps) {
	r.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.String(consts.StatusOK, "pong")
	})

	// Mux回调不经过登录态解析, 只认签名
	r.POST("/api/videos/webhook", video.Webhook)

	v1 := r.Group("/api/v1", mw.Viewer(d.verifier, d.resolve))
	auth := []app.HandlerFunc{mw.Required()}
	write := []app.HandlerFunc{mw.Required(), mw.RateLimit(d.limiter)}
	feed := mw.Flow(mw.FeedResource)

	v1.GET("/categories", video.ListCategories)

	videos := v1.Group("/videos")
	videos.GET("", feed, video.ListVideos)
	videos.GET("/search", feed, video.Search)
	videos.GET("/trending", feed, video.ListTrending)
	videos.GET("/:video_id", video.GetVideo)
	videos.GET("/:video_id/suggestions", feed, video.ListSuggestions)
	videos.GET("/:video_id/comments", interaction.ListComments)
	videos.POST("/:video_id/comments", append(write, interaction.CreateComment)...)
	videos.POST("/:video_id/reactions", append(write, interaction.VideoReaction)...)
	videos.POST("/:video_id/views", append(auth, interaction.RecordView)...)
	videos.GET("/:video_id/playlists", append(auth, video.ListPlaylistsForVideo)...)

	comments := v1.Group("/comments")
	comments.DELETE("/:comment_id", append(write, interaction.RemoveComment)...)
	comments.POST("/:comment_id/reactions", append(write, interaction.CommentReaction)...)

	me := v1.Group("/me", auth...)
	me.GET("/subscriptions/videos", video.ListSubscribed)
	me.GET("/subscriptions", relation.ListSubscriptions)
	me.GET("/liked", video.ListLiked)
	me.GET("/history", video.ListHistory)

	users := v1.Group("/users")
	users.GET("/:user_id", user.GetUser)
	users.POST("/:user_id/subscription", append(write, relation.Subscribe)...)
	users.DELETE("/:user_id/subscription", append(write, relation.Unsubscribe)...)

	studio := v1.Group("/studio/videos", auth...)
	studio.GET("", video.ListStudioVideos)
	studio.POST("", mw.RateLimit(d.limiter), video.CreateVideo)
	studio.GET("/:video_id", video.GetStudioVideo)
	studio.PATCH("/:video_id", mw.RateLimit(d.limiter), video.UpdateVideo)
	studio.DELETE("/:video_id", mw.RateLimit(d.limiter), video.RemoveVideo)
	studio.POST("/:video_id/revalidate", mw.RateLimit(d.limiter), video.RevalidateVideo)
	studio.POST("/:video_id/thumbnail/restore", mw.RateLimit(d.limiter), video.RestoreThumbnail)

	playlists := v1.Group("/playlists", auth...)
	playlists.GET("", video.ListPlaylists)
	playlists.POST("", mw.RateLimit(d.limiter), video.CreatePlaylist)
	playlists.GET("/:playlist_id", video.GetPlaylist)
	playlists.DELETE("/:playlist_id", mw.RateLimit(d.limiter), video.RemovePlaylist)
	playlists.GET("/:playlist_id/videos", video.ListPlaylistVideos)
	playlists.POST("/:playlist_id/videos/:video_id", mw.RateLimit(d.limiter), video.AddPlaylistVideo)
	playlists.DELETE("/:playlist_id/videos/:video_id", mw.RateLimit(d.limiter), video.RemovePlaylistVideo)
}
