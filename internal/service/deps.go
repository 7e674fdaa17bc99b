package service

import (
	"context"
	"io"
	"time"

	"vidtube/internal/api/dto"
	infraKafka "vidtube/internal/infra/kafka"
	"vidtube/internal/model"
)

// MediaStore 媒体对象存储抽象，由 infra/minio.Store 实现
type MediaStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
}

// MediaFile Handler 层解出的上传文件
type MediaFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Ext         string // 含点，如 ".mp4"
}

// VideoEvents 视频生命周期事件发布抽象，由 infra/kafka.Producer 实现
type VideoEvents interface {
	SendVideoEvent(ctx context.Context, event *infraKafka.VideoEvent) error
}

// StatsCache 统计缓存抽象，由 infra/redis.Cache 实现，nil 表示不缓存
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

func toOwnerBrief(u *model.User) *dto.OwnerBrief {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &dto.OwnerBrief{
		ID:       u.ID,
		Username: u.UserName,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

func toUserInfo(u *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:         u.ID,
		Username:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}

func totalPages(total int64, pageSize int) int64 {
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

func toVideoInfo(v *model.Video) dto.VideoInfo {
	info := dto.VideoInfo{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbURL,
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if owner := toOwnerBrief(&v.Owner); owner != nil {
		info.Owner = owner
	}
	return info
}

func toVideoInfoList(videos []model.Video) []dto.VideoInfo {
	list := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		list = append(list, toVideoInfo(&videos[i]))
	}
	return list
}
