package service

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

var ErrNotTweetOwner = errors.New("无权操作该动态")

type TweetService struct {
	tweetRepo *repository.TweetRepository
	likeRepo  *repository.LikeRepository
	userRepo  *repository.UserRepository
}

func NewTweetService(tweetRepo *repository.TweetRepository, likeRepo *repository.LikeRepository, userRepo *repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, likeRepo: likeRepo, userRepo: userRepo}
}

// Create 发布动态
func (s *TweetService) Create(ownerID int64, req *dto.TweetCreateRequest) (*dto.TweetInfo, error) {
	tweet := &model.Tweet{OwnerID: ownerID, Content: req.Content}
	if err := s.tweetRepo.Create(tweet); err != nil {
		return nil, err
	}

	created, err := s.tweetRepo.GetByID(tweet.ID)
	if err != nil {
		return nil, err
	}
	return toTweetInfo(created), nil
}

// Update 更新动态内容，仅作者可操作
func (s *TweetService) Update(ownerID, tweetID int64, req *dto.TweetUpdateRequest) (*dto.TweetInfo, error) {
	if _, err := s.ownedTweet(tweetID, ownerID); err != nil {
		return nil, err
	}
	if err := s.tweetRepo.UpdateContent(tweetID, req.Content); err != nil {
		return nil, err
	}

	tweet, err := s.tweetRepo.GetByID(tweetID)
	if err != nil {
		return nil, err
	}
	return toTweetInfo(tweet), nil
}

// Delete 删除动态及其收到的点赞，仅作者可操作
func (s *TweetService) Delete(ownerID, tweetID int64) error {
	if _, err := s.ownedTweet(tweetID, ownerID); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(tweetID); err != nil {
		return err
	}
	return s.likeRepo.DeleteByTarget(model.LikeTargetTweet, tweetID)
}

// ListByUser 某用户的动态列表，最新在前
func (s *TweetService) ListByUser(userID int64, page, limit int) (*dto.TweetListData, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skip := (page - 1) * limit
	tweets, total, err := s.tweetRepo.ListByOwner(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	list := make([]dto.TweetInfo, 0, len(tweets))
	for i := range tweets {
		list = append(list, *toTweetInfo(&tweets[i]))
	}

	return &dto.TweetListData{
		Tweets:     list,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *TweetService) ownedTweet(tweetID, ownerID int64) (*model.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	if tweet.OwnerID != ownerID {
		return nil, ErrNotTweetOwner
	}
	return tweet, nil
}

func toTweetInfo(t *model.Tweet) *dto.TweetInfo {
	return &dto.TweetInfo{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Owner:     toOwnerBrief(&t.Owner),
	}
}
