package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/api/dto"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("邮箱已被其他用户使用")

type UserService struct {
	userRepo *repository.UserRepository
	subRepo  *repository.SubscriptionRepository
	media    MediaStore
}

func NewUserService(userRepo *repository.UserRepository, subRepo *repository.SubscriptionRepository, media MediaStore) *UserService {
	return &UserService{userRepo: userRepo, subRepo: subRepo, media: media}
}

// UpdateAccount 更新账号资料（仅更新给出的字段）
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *dto.UpdateAccountRequest) (*dto.UserInfo, error) {
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		exists, err := s.emailTakenByOther(userID, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailTaken
		}
		updates["email"] = email
	}

	if len(updates) == 0 {
		return s.userInfoByID(userID)
	}

	user, err := s.userRepo.Update(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

// UpdateAvatar 替换头像，成功后清理旧对象
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, file *MediaFile) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	object := fmt.Sprintf("avatars/%s-%d%s", user.UserName, time.Now().UnixNano(), file.Ext)
	url, err := s.media.Upload(ctx, object, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传头像失败: %w", err)
	}

	updated, err := s.userRepo.Update(userID, map[string]interface{}{
		"avatar":        url,
		"avatar_object": object,
	})
	if err != nil {
		s.deleteObject(ctx, object)
		return nil, err
	}

	if user.AvatarObject != "" && user.AvatarObject != object {
		s.deleteObject(ctx, user.AvatarObject)
	}
	return toUserInfo(updated), nil
}

// UpdateCoverImage 替换封面图，成功后清理旧对象
func (s *UserService) UpdateCoverImage(ctx context.Context, userID int64, file *MediaFile) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	object := fmt.Sprintf("covers/%s-%d%s", user.UserName, time.Now().UnixNano(), file.Ext)
	url, err := s.media.Upload(ctx, object, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传封面失败: %w", err)
	}

	updated, err := s.userRepo.Update(userID, map[string]interface{}{
		"cover_image":  url,
		"cover_object": object,
	})
	if err != nil {
		s.deleteObject(ctx, object)
		return nil, err
	}

	if user.CoverObject != nil && *user.CoverObject != "" && *user.CoverObject != object {
		s.deleteObject(ctx, *user.CoverObject)
	}
	return toUserInfo(updated), nil
}

// ChannelProfile 频道主页：基础信息 + 订阅数，viewerID 为 0 表示未登录
func (s *UserService) ChannelProfile(username string, viewerID int64) (*dto.ChannelProfile, error) {
	user, err := s.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscriberCount, err := s.subRepo.CountSubscribers(user.ID)
	if err != nil {
		return nil, err
	}
	subscribedToCount, err := s.subRepo.CountSubscribedTo(user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if viewerID > 0 && viewerID != user.ID {
		isSubscribed, err = s.subRepo.Exists(viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ChannelProfile{
		UserInfo:          *toUserInfo(user),
		SubscriberCount:   subscriberCount,
		SubscribedToCount: subscribedToCount,
		IsSubscribed:      isSubscribed,
	}, nil
}

// WatchHistory 观看历史，按最近观看倒序分页
func (s *UserService) WatchHistory(userID int64, page, limit int) (*dto.WatchHistoryData, error) {
	skip := (page - 1) * limit
	entries, total, err := s.userRepo.ListWatchHistory(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.WatchHistoryItem, 0, len(entries))
	for i := range entries {
		items = append(items, dto.WatchHistoryItem{
			Video:     toVideoInfo(&entries[i].Video),
			WatchedAt: entries[i].WatchedAt,
		})
	}

	return &dto.WatchHistoryData{
		History:    items,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *UserService) userInfoByID(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *UserService) emailTakenByOther(userID int64, email string) (bool, error) {
	existing, err := s.userRepo.GetByUsernameOrEmail("", email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != userID, nil
}

func (s *UserService) deleteObject(ctx context.Context, object string) {
	if err := s.media.Delete(ctx, object); err != nil {
		logger.Warn("Delete media object failed",
			zap.String("object", object), zap.Error(err))
	}
}
