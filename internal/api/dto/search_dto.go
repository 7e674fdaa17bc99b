package dto

// SearchVideoRequest 视频搜索请求
type SearchVideoRequest struct {
	Keyword  string `form:"q" binding:"required,min=1,max=100"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// SearchVideoItem 搜索结果条目，Highlights 仅 ES 命中时存在
type SearchVideoItem struct {
	VideoInfo
	Highlights map[string][]string `json:"highlights,omitempty"`
}

// SearchVideoData 搜索结果响应数据
type SearchVideoData struct {
	Items      []SearchVideoItem `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int64             `json:"total_pages"`
	Source     string            `json:"source"` // es / db
}
