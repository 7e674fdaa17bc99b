package dto

// ToggleResult 点赞/订阅切换结果，Active 为切换后的状态
type ToggleResult struct {
	TargetID int64 `json:"target_id"`
	Active   bool  `json:"active"`
	Count    int64 `json:"count"`
}

// LikedVideosData 点赞视频列表响应数据
type LikedVideosData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
