package model

import "time"

// LikeTargetType 点赞目标类型，三选一
type LikeTargetType string

const (
	LikeTargetVideo   LikeTargetType = "video"
	LikeTargetComment LikeTargetType = "comment"
	LikeTargetTweet   LikeTargetType = "tweet"
)

// Valid 校验目标类型取值
func (t LikeTargetType) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like 点赞模型，(user_id, target_type, target_id) 唯一
// 记录存在即点赞状态为 on
type Like struct {
	ID         int64          `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID     int64          `gorm:"not null;uniqueIndex:uq_user_target_like;index:idx_likes_user;comment:点赞用户ID" json:"user_id"`
	TargetType LikeTargetType `gorm:"size:20;not null;uniqueIndex:uq_user_target_like;index:idx_likes_target;comment:目标类型" json:"target_type"`
	TargetID   int64          `gorm:"not null;uniqueIndex:uq_user_target_like;index:idx_likes_target;comment:目标ID" json:"target_id"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_likes_created_at;comment:点赞时间" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
