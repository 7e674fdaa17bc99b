package service

import (
	"context"
	"fmt"
	"time"

	"vidtube/internal/api/dto"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

const statsCacheTTL = 60 * time.Second

type DashboardService struct {
	videoRepo *repository.VideoRepository
	subRepo   *repository.SubscriptionRepository
	likeRepo  *repository.LikeRepository
	cache     StatsCache
}

func NewDashboardService(
	videoRepo *repository.VideoRepository,
	subRepo *repository.SubscriptionRepository,
	likeRepo *repository.LikeRepository,
	cache StatsCache,
) *DashboardService {
	return &DashboardService{videoRepo: videoRepo, subRepo: subRepo, likeRepo: likeRepo, cache: cache}
}

// ChannelStats 频道统计，空频道返回全 0
// 结果短暂缓存，统计类数据允许轻度滞后
func (s *DashboardService) ChannelStats(ctx context.Context, channelID int64) (*dto.ChannelStats, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%d", channelID)

	if s.cache != nil {
		var cached dto.ChannelStats
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	totalVideos, totalViews, err := s.videoRepo.CountByOwner(channelID)
	if err != nil {
		return nil, err
	}
	totalSubscribers, err := s.subRepo.CountSubscribers(channelID)
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.likeRepo.CountReceivedOnVideos(channelID)
	if err != nil {
		return nil, err
	}

	stats := &dto.ChannelStats{
		TotalVideos:      totalVideos,
		TotalViews:       totalViews,
		TotalSubscribers: totalSubscribers,
		TotalLikes:       totalLikes,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, stats, statsCacheTTL); err != nil {
			logger.Warn("Cache channel stats failed",
				zap.Int64("channel_id", channelID), zap.Error(err))
		}
	}

	return stats, nil
}

// ChannelVideos 频道全部视频（含未发布），仅频道主本人查看
func (s *DashboardService) ChannelVideos(channelID int64, page, limit int) (*dto.VideoListData, error) {
	params := repository.VideoListParams{
		Skip:      (page - 1) * limit,
		Limit:     limit,
		OwnerID:   &channelID,
		SortBy:    "created_at",
		WithOwner: true,
	}

	videos, total, err := s.videoRepo.List(params)
	if err != nil {
		return nil, err
	}

	return &dto.VideoListData{
		Videos:     toVideoInfoList(videos),
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
