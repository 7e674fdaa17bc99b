package service

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

var ErrCannotSubscribeSelf = errors.New("不能订阅自己的频道")

type SubscriptionService struct {
	subRepo  *repository.SubscriptionRepository
	userRepo *repository.UserRepository
}

func NewSubscriptionService(subRepo *repository.SubscriptionRepository, userRepo *repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// Toggle 订阅开关：已订阅则退订，未订阅则新增，返回最新状态与订阅者总数
func (s *SubscriptionService) Toggle(subscriberID, channelID int64) (*dto.ToggleResult, error) {
	if subscriberID == channelID {
		return nil, ErrCannotSubscribeSelf
	}

	if _, err := s.userRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	removed, err := s.subRepo.Delete(subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	active := false
	if !removed {
		if _, err := s.subRepo.Create(subscriberID, channelID); err != nil {
			return nil, err
		}
		active = true
	}

	count, err := s.subRepo.CountSubscribers(channelID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleResult{TargetID: channelID, Active: active, Count: count}, nil
}

// Subscribers 频道的订阅者列表
func (s *SubscriptionService) Subscribers(channelID int64, page, limit int) (*dto.SubscriptionListData, error) {
	if _, err := s.userRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skip := (page - 1) * limit
	subs, total, err := s.subRepo.ListSubscribers(channelID, skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionItem, 0, len(subs))
	for i := range subs {
		items = append(items, toSubscriptionItem(&subs[i], &subs[i].Subscriber))
	}
	return subscriptionListData(items, total, page, limit), nil
}

// SubscribedChannels 某用户订阅的频道列表
func (s *SubscriptionService) SubscribedChannels(subscriberID int64, page, limit int) (*dto.SubscriptionListData, error) {
	if _, err := s.userRepo.GetByID(subscriberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skip := (page - 1) * limit
	subs, total, err := s.subRepo.ListSubscribedChannels(subscriberID, skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionItem, 0, len(subs))
	for i := range subs {
		items = append(items, toSubscriptionItem(&subs[i], &subs[i].Channel))
	}
	return subscriptionListData(items, total, page, limit), nil
}

func toSubscriptionItem(sub *model.Subscription, user *model.User) dto.SubscriptionItem {
	item := dto.SubscriptionItem{SubscribedAt: sub.CreatedAt}
	if brief := toOwnerBrief(user); brief != nil {
		item.User = *brief
	}
	return item
}

func subscriptionListData(items []dto.SubscriptionItem, total int64, page, limit int) *dto.SubscriptionListData {
	return &dto.SubscriptionListData{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}
}
