package dto

import "time"

// UserInfo 用户公开信息（不含密码与刷新令牌）
type UserInfo struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage *string   `json:"cover_image"`
	CreatedAt  time.Time `json:"created_at"`
}

// OwnerBrief 列表中内联的作者投影
type OwnerBrief struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

// UpdateAccountRequest 更新账号资料请求
type UpdateAccountRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=1,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

// ChannelProfile 频道主页信息
type ChannelProfile struct {
	UserInfo
	SubscriberCount   int64 `json:"subscriber_count"`
	SubscribedToCount int64 `json:"subscribed_to_count"`
	IsSubscribed      bool  `json:"is_subscribed"`
}

// WatchHistoryItem 观看历史条目
type WatchHistoryItem struct {
	Video     VideoInfo `json:"video"`
	WatchedAt time.Time `json:"watched_at"`
}

// WatchHistoryData 观看历史响应数据
type WatchHistoryData struct {
	History    []WatchHistoryItem `json:"history"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}
