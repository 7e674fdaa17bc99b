package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vidtube/internal/config"
	"vidtube/internal/infra/database"
	"vidtube/internal/infra/elasticsearch"
	"vidtube/internal/infra/kafka"
	"vidtube/internal/infra/minio"
	"vidtube/internal/mediainfo"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const consumerGroup = "vidtube-worker"

// worker 消费视频生命周期事件：
//   - video.created 下载源文件探测时长并回填，随后同步搜索索引
//   - video.updated 重新同步搜索索引
//   - video.deleted 从搜索索引移除
type worker struct {
	videoRepo *repository.VideoRepository
	store     *minio.Store
	esReady   bool
}

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

	logger.Info("Starting worker",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Init database failed", zap.Error(err))
	}
	defer database.Close()

	store, err := minio.New(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Init minio failed", zap.Error(err))
	}

	esReady := true
	if err := elasticsearch.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Init elasticsearch failed, index sync disabled", zap.Error(err))
		esReady = false
	} else {
		defer elasticsearch.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := elasticsearch.EnsureVideosIndex(ctx); err != nil {
			logger.Warn("Ensure videos index failed", zap.Error(err))
		}
		cancel()
	}

	db := database.Get()
	w := &worker{
		videoRepo: repository.NewVideoRepository(db),
		store:     store,
		esReady:   esReady,
	}

	topic := cfg.Kafka.Topics["video_events"]
	if topic == "" {
		logger.Fatal("Kafka topic video_events not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		kafka.StartVideoEventConsumer(ctx, cfg.Kafka.Brokers, topic, consumerGroup, w.handle)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	logger.Info("Worker exited")
}

func (w *worker) handle(event *kafka.VideoEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch event.Type {
	case kafka.EventVideoCreated:
		if err := w.probeDuration(ctx, event); err != nil {
			logger.Warn("Probe video duration failed",
				zap.Int64("video_id", event.VideoID), zap.Error(err))
		}
		return w.syncIndex(ctx, event.VideoID)
	case kafka.EventVideoUpdated:
		return w.syncIndex(ctx, event.VideoID)
	case kafka.EventVideoDeleted:
		if !w.esReady {
			return nil
		}
		return elasticsearch.RemoveVideo(ctx, event.VideoID)
	default:
		logger.Warn("Unknown video event type", zap.String("type", event.Type))
		return nil
	}
}

// probeDuration 下载源文件到临时目录，用 ffprobe 探测时长并回填
func (w *worker) probeDuration(ctx context.Context, event *kafka.VideoEvent) error {
	if event.VideoObject == "" {
		return nil
	}

	tmpFile := filepath.Join(os.TempDir(),
		fmt.Sprintf("vidtube-probe-%d%s", event.VideoID, filepath.Ext(event.VideoObject)))
	defer os.Remove(tmpFile)

	if err := w.store.Download(ctx, event.VideoObject, tmpFile); err != nil {
		return fmt.Errorf("download video object: %w", err)
	}

	info, err := mediainfo.Probe(ctx, tmpFile)
	if err != nil {
		return err
	}
	if info.Duration <= 0 {
		return nil
	}

	if _, err := w.videoRepo.Update(event.VideoID, map[string]interface{}{
		"duration": info.Duration,
	}); err != nil {
		// 视频可能在探测完成前已被删除
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	logger.Info("Video duration updated",
		zap.Int64("video_id", event.VideoID),
		zap.Int("duration", info.Duration),
	)
	return nil
}

// syncIndex 将视频最新状态同步到搜索索引，未发布视频直接移除
func (w *worker) syncIndex(ctx context.Context, videoID int64) error {
	if !w.esReady {
		return nil
	}

	video, err := w.videoRepo.GetByIDWithOwner(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return elasticsearch.RemoveVideo(ctx, videoID)
		}
		return err
	}

	if !video.IsPublished {
		return elasticsearch.RemoveVideo(ctx, videoID)
	}
	return elasticsearch.SyncVideo(ctx, video, video.Owner.UserName)
}
