package dto

import "time"

// SubscriptionItem 订阅条目（订阅者列表/订阅频道列表共用）
type SubscriptionItem struct {
	User         OwnerBrief `json:"user"`
	SubscribedAt time.Time  `json:"subscribed_at"`
}

// SubscriptionListData 订阅列表响应数据
type SubscriptionListData struct {
	Items      []SubscriptionItem `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}
