package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "vidtube/api/openapi"
	"vidtube/internal/api/handler"
	"vidtube/internal/api/router"
	"vidtube/internal/config"
	"vidtube/internal/infra/database"
	"vidtube/internal/infra/elasticsearch"
	"vidtube/internal/infra/kafka"
	"vidtube/internal/infra/minio"
	"vidtube/internal/infra/redis"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

// @title VidTube API
// @version 0.3.0
// @description 视频分享平台后端接口文档
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting API server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
	)

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Init database failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&model.User{}, &model.WatchHistory{},
		&model.Video{}, &model.Comment{}, &model.Like{},
		&model.Playlist{}, &model.PlaylistVideo{},
		&model.Subscription{}, &model.Tweet{},
	); err != nil {
		logger.Fatal("Auto migrate failed", zap.Error(err))
	}

	mediaStore, err := minio.New(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Init minio failed", zap.Error(err))
	}

	// 以下依赖允许缺席：缓存、事件与搜索各自降级
	var statsCache service.StatsCache
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Init redis failed, stats cache disabled", zap.Error(err))
	} else {
		statsCache = redis.NewCache()
		defer redis.Close()
	}

	var videoEvents service.VideoEvents
	producer, err := kafka.NewProducer(&cfg.Kafka)
	if err != nil {
		logger.Warn("Init kafka producer failed, video events disabled", zap.Error(err))
	} else {
		videoEvents = producer
		defer producer.Close()
	}

	if err := elasticsearch.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Init elasticsearch failed, search falls back to database", zap.Error(err))
	} else {
		defer elasticsearch.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := elasticsearch.EnsureVideosIndex(ctx); err != nil {
			logger.Warn("Ensure videos index failed", zap.Error(err))
		}
		cancel()
	}

	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	authSvc := service.NewAuthService(userRepo, mediaStore, &cfg.JWT)
	userSvc := service.NewUserService(userRepo, subRepo, mediaStore)
	videoSvc := service.NewVideoService(videoRepo, commentRepo, likeRepo, playlistRepo, userRepo, mediaStore, videoEvents)
	commentSvc := service.NewCommentService(commentRepo, videoRepo, likeRepo)
	likeSvc := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	playlistSvc := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	subSvc := service.NewSubscriptionService(subRepo, userRepo)
	tweetSvc := service.NewTweetService(tweetRepo, likeRepo, userRepo)
	dashboardSvc := service.NewDashboardService(videoRepo, subRepo, likeRepo, statsCache)
	searchSvc := service.NewSearchService(videoRepo)

	engine := router.Setup(cfg, &router.Handlers{
		User:         handler.NewUserHandler(authSvc, userSvc, &cfg.JWT),
		Video:        handler.NewVideoHandler(videoSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Like:         handler.NewLikeHandler(likeSvc),
		Playlist:     handler.NewPlaylistHandler(playlistSvc),
		Subscription: handler.NewSubscriptionHandler(subSvc),
		Tweet:        handler.NewTweetHandler(tweetSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Search:       handler.NewSearchHandler(searchSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server exited")
}
