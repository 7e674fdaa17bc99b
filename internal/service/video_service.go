package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidtube/internal/api/dto"
	infraKafka "vidtube/internal/infra/kafka"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrNotVideoOwner     = errors.New("无权操作该视频")
	ErrVideoFileRequired = errors.New("视频文件不能为空")
	ErrThumbRequired     = errors.New("缩略图不能为空")
)

type VideoService struct {
	videoRepo    *repository.VideoRepository
	commentRepo  *repository.CommentRepository
	likeRepo     *repository.LikeRepository
	playlistRepo *repository.PlaylistRepository
	userRepo     *repository.UserRepository
	media        MediaStore
	events       VideoEvents
}

func NewVideoService(
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
	playlistRepo *repository.PlaylistRepository,
	userRepo *repository.UserRepository,
	media MediaStore,
	events VideoEvents,
) *VideoService {
	return &VideoService{
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
		media:        media,
		events:       events,
	}
}

// Publish 发布视频：上传视频文件与缩略图后落库
// 时长由 worker 消费 video.created 事件后异步探测回填
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *dto.VideoPublishRequest, videoFile, thumb *MediaFile) (*dto.VideoInfo, error) {
	if videoFile == nil {
		return nil, ErrVideoFileRequired
	}
	if thumb == nil {
		return nil, ErrThumbRequired
	}

	now := time.Now().UnixNano()
	videoObject := fmt.Sprintf("videos/%d-%d%s", ownerID, now, videoFile.Ext)
	thumbObject := fmt.Sprintf("thumbnails/%d-%d%s", ownerID, now, thumb.Ext)

	videoURL, err := s.media.Upload(ctx, videoObject, videoFile.Reader, videoFile.Size, videoFile.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传视频失败: %w", err)
	}

	thumbURL, err := s.media.Upload(ctx, thumbObject, thumb.Reader, thumb.Size, thumb.ContentType)
	if err != nil {
		s.deleteObject(ctx, videoObject)
		return nil, fmt.Errorf("上传缩略图失败: %w", err)
	}

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    videoURL,
		VideoObject: videoObject,
		ThumbURL:    thumbURL,
		ThumbObject: thumbObject,
		IsPublished: true,
	}

	if err := s.videoRepo.Create(video); err != nil {
		s.deleteObject(ctx, videoObject)
		s.deleteObject(ctx, thumbObject)
		return nil, err
	}

	s.sendEvent(ctx, &infraKafka.VideoEvent{
		Type:        infraKafka.EventVideoCreated,
		VideoID:     video.ID,
		VideoObject: videoObject,
	})

	info := toVideoInfo(video)
	return &info, nil
}

// List 视频列表：仅返回已发布视频，支持搜索、排序与按作者筛选
func (s *VideoService) List(q *dto.VideoListQuery) (*dto.VideoListData, error) {
	params := repository.VideoListParams{
		Skip:          (q.Page - 1) * q.Limit,
		Limit:         q.Limit,
		OwnerID:       q.UserID,
		OnlyPublished: true,
		Query:         q.Query,
		SortBy:        q.SortBy,
		SortAsc:       q.SortType == "asc",
		WithOwner:     true,
	}

	videos, total, err := s.videoRepo.List(params)
	if err != nil {
		return nil, err
	}

	return &dto.VideoListData{
		Videos:     toVideoInfoList(videos),
		Total:      total,
		Page:       q.Page,
		PageSize:   q.Limit,
		TotalPages: totalPages(total, q.Limit),
	}, nil
}

// GetDetail 视频详情：已发布视频播放数 +1，登录观看者记入观看历史
// 未发布视频仅作者本人可见
func (s *VideoService) GetDetail(videoID, viewerID int64) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByIDWithOwner(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, ErrVideoNotFound
	}

	if video.IsPublished {
		if err := s.videoRepo.IncrementViewCount(videoID); err != nil {
			logger.Warn("Increment view count failed",
				zap.Int64("video_id", videoID), zap.Error(err))
		} else {
			video.ViewCount++
		}

		if viewerID > 0 {
			if err := s.userRepo.UpsertWatchHistory(viewerID, videoID); err != nil {
				logger.Warn("Record watch history failed",
					zap.Int64("user_id", viewerID),
					zap.Int64("video_id", videoID), zap.Error(err))
			}
		}
	}

	info := toVideoInfo(video)
	return &info, nil
}

// Update 更新视频资料，可同时替换缩略图，仅作者可操作
func (s *VideoService) Update(ctx context.Context, ownerID, videoID int64, req *dto.VideoUpdateRequest, thumb *MediaFile) (*dto.VideoInfo, error) {
	video, err := s.ownedVideo(videoID, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	var newThumbObject string
	if thumb != nil {
		newThumbObject = fmt.Sprintf("thumbnails/%d-%d%s", ownerID, time.Now().UnixNano(), thumb.Ext)
		thumbURL, err := s.media.Upload(ctx, newThumbObject, thumb.Reader, thumb.Size, thumb.ContentType)
		if err != nil {
			return nil, fmt.Errorf("上传缩略图失败: %w", err)
		}
		updates["thumb_url"] = thumbURL
		updates["thumb_object"] = newThumbObject
	}

	if len(updates) == 0 {
		info := toVideoInfo(video)
		return &info, nil
	}

	updated, err := s.videoRepo.Update(videoID, updates)
	if err != nil {
		if newThumbObject != "" {
			s.deleteObject(ctx, newThumbObject)
		}
		return nil, err
	}

	if newThumbObject != "" && video.ThumbObject != "" {
		s.deleteObject(ctx, video.ThumbObject)
	}

	s.sendEvent(ctx, &infraKafka.VideoEvent{
		Type:    infraKafka.EventVideoUpdated,
		VideoID: videoID,
	})

	info := toVideoInfo(updated)
	return &info, nil
}

// TogglePublish 切换发布状态，仅作者可操作
func (s *VideoService) TogglePublish(ctx context.Context, ownerID, videoID int64) (*dto.VideoInfo, error) {
	video, err := s.ownedVideo(videoID, ownerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.videoRepo.Update(videoID, map[string]interface{}{
		"is_published": !video.IsPublished,
	})
	if err != nil {
		return nil, err
	}

	s.sendEvent(ctx, &infraKafka.VideoEvent{
		Type:    infraKafka.EventVideoUpdated,
		VideoID: videoID,
	})

	info := toVideoInfo(updated)
	return &info, nil
}

// Delete 删除视频：级联清理评论、点赞、播放列表条目、观看历史与媒体对象
func (s *VideoService) Delete(ctx context.Context, ownerID, videoID int64) error {
	video, err := s.ownedVideo(videoID, ownerID)
	if err != nil {
		return err
	}

	if err := s.likeRepo.DeleteByVideoComments(videoID); err != nil {
		return err
	}
	if err := s.likeRepo.DeleteByTarget(model.LikeTargetVideo, videoID); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByVideo(videoID); err != nil {
		return err
	}
	if err := s.playlistRepo.RemoveVideoFromAll(videoID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteWatchHistoryByVideo(videoID); err != nil {
		return err
	}
	if err := s.videoRepo.Delete(videoID); err != nil {
		return err
	}

	s.deleteObject(ctx, video.VideoObject)
	if video.ThumbObject != "" {
		s.deleteObject(ctx, video.ThumbObject)
	}

	s.sendEvent(ctx, &infraKafka.VideoEvent{
		Type:    infraKafka.EventVideoDeleted,
		VideoID: videoID,
	})

	return nil
}

func (s *VideoService) ownedVideo(videoID, ownerID int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.OwnerID != ownerID {
		return nil, ErrNotVideoOwner
	}
	return video, nil
}

func (s *VideoService) sendEvent(ctx context.Context, event *infraKafka.VideoEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.SendVideoEvent(ctx, event); err != nil {
		logger.Warn("Send video event failed",
			zap.String("type", event.Type),
			zap.Int64("video_id", event.VideoID), zap.Error(err))
	}
}

func (s *VideoService) deleteObject(ctx context.Context, object string) {
	if err := s.media.Delete(ctx, object); err != nil {
		logger.Warn("Delete media object failed",
			zap.String("object", object), zap.Error(err))
	}
}
