package router

import (
	"net/http"
	"time"

	"vidtube/internal/api/handler"
	"vidtube/internal/api/middleware"
	"vidtube/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由依赖的 handler 集合
type Handlers struct {
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Comment      *handler.CommentHandler
	Like         *handler.LikeHandler
	Playlist     *handler.PlaylistHandler
	Subscription *handler.SubscriptionHandler
	Tweet        *handler.TweetHandler
	Dashboard    *handler.DashboardHandler
	Search       *handler.SearchHandler
}

// Setup 初始化路由
func Setup(cfg *config.Config, h *Handlers) *gin.Engine {
	if cfg.App.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logger())

	auth := middleware.Auth(cfg.JWT.AccessSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.AccessSecret)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh-token", h.User.RefreshToken)
		users.POST("/logout", auth, h.User.Logout)
		users.POST("/change-password", auth, h.User.ChangePassword)
		users.GET("/current-user", auth, h.User.CurrentUser)
		users.PATCH("/update-account", auth, h.User.UpdateAccount)
		users.PATCH("/avatar", auth, h.User.UpdateAvatar)
		users.PATCH("/cover-image", auth, h.User.UpdateCoverImage)
		users.GET("/c/:username", auth, h.User.ChannelProfile)
		users.GET("/history", auth, h.User.WatchHistory)
	}

	videos := v1.Group("/videos")
	{
		videos.GET("", h.Video.List)
		videos.POST("", auth, h.Video.Publish)
		videos.GET("/:videoId", optionalAuth, h.Video.GetByID)
		videos.PATCH("/:videoId", auth, h.Video.Update)
		videos.DELETE("/:videoId", auth, h.Video.Delete)
		videos.PATCH("/toggle/publish/:videoId", auth, h.Video.TogglePublish)
	}

	comments := v1.Group("/comments", auth)
	{
		comments.GET("/:videoId", h.Comment.ListByVideo)
		comments.POST("/:videoId", h.Comment.Create)
		comments.PATCH("/c/:commentId", h.Comment.Update)
		comments.DELETE("/c/:commentId", h.Comment.Delete)
	}

	likes := v1.Group("/likes", auth)
	{
		likes.POST("/toggle/v/:videoId", h.Like.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", h.Like.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", h.Like.ToggleTweetLike)
		likes.GET("/videos", h.Like.LikedVideos)
	}

	playlists := v1.Group("/playlists", auth)
	{
		playlists.POST("", h.Playlist.Create)
		playlists.GET("/:playlistId", h.Playlist.GetByID)
		playlists.PATCH("/:playlistId", h.Playlist.Update)
		playlists.DELETE("/:playlistId", h.Playlist.Delete)
		playlists.PATCH("/add/:videoId/:playlistId", h.Playlist.AddVideo)
		playlists.PATCH("/remove/:videoId/:playlistId", h.Playlist.RemoveVideo)
		playlists.GET("/user/:userId", h.Playlist.ListByUser)
	}

	subscriptions := v1.Group("/subscriptions", auth)
	{
		subscriptions.POST("/c/:channelId", h.Subscription.Toggle)
		subscriptions.GET("/c/:channelId", h.Subscription.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.Subscription.SubscribedChannels)
	}

	tweets := v1.Group("/tweets", auth)
	{
		tweets.POST("", h.Tweet.Create)
		tweets.GET("/user/:userId", h.Tweet.ListByUser)
		tweets.PATCH("/:tweetId", h.Tweet.Update)
		tweets.DELETE("/:tweetId", h.Tweet.Delete)
	}

	dashboard := v1.Group("/dashboard", auth)
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/videos", h.Dashboard.Videos)
	}

	v1.GET("/search/videos", h.Search.SearchVideos)

	return r
}
