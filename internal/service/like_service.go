package service

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrLikeTargetNotFound = errors.New("点赞目标不存在")
	ErrTweetNotFound      = errors.New("动态不存在")
)

type LikeService struct {
	likeRepo    *repository.LikeRepository
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	tweetRepo   *repository.TweetRepository
}

func NewLikeService(
	likeRepo *repository.LikeRepository,
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	tweetRepo *repository.TweetRepository,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

// Toggle 点赞开关：已点赞则取消，未点赞则新增，返回最新状态与总数
func (s *LikeService) Toggle(userID int64, targetType model.LikeTargetType, targetID int64) (*dto.ToggleResult, error) {
	if err := s.ensureTarget(targetType, targetID); err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Delete(userID, targetType, targetID)
	if err != nil {
		return nil, err
	}

	active := false
	if !removed {
		if _, err := s.likeRepo.Create(userID, targetType, targetID); err != nil {
			return nil, err
		}
		active = true
	}

	count, err := s.likeRepo.CountByTarget(targetType, targetID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleResult{TargetID: targetID, Active: active, Count: count}, nil
}

// LikedVideos 用户点赞过的视频列表，最近点赞在前
func (s *LikeService) LikedVideos(userID int64, page, limit int) (*dto.LikedVideosData, error) {
	skip := (page - 1) * limit
	ids, total, err := s.likeRepo.ListLikedVideoIDs(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByIDsWithOwner(ids)
	if err != nil {
		return nil, err
	}

	// 回表后恢复点赞顺序
	byID := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	ordered := make([]dto.VideoInfo, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, toVideoInfo(v))
		}
	}

	return &dto.LikedVideosData{
		Videos:     ordered,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *LikeService) ensureTarget(targetType model.LikeTargetType, targetID int64) error {
	var err error
	switch targetType {
	case model.LikeTargetVideo:
		_, err = s.videoRepo.GetByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
	case model.LikeTargetComment:
		_, err = s.commentRepo.GetByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLikeTargetNotFound
		}
	case model.LikeTargetTweet:
		_, err = s.tweetRepo.GetByID(targetID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTweetNotFound
		}
	default:
		return ErrLikeTargetNotFound
	}
	return err
}
