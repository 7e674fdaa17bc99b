package model

import "time"

// User 用户模型
// Password 与 RefreshToken 序列化时始终忽略
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName     string    `gorm:"size:255;not null;uniqueIndex;comment:用户名（小写）" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex;comment:邮箱（小写）" json:"email"`
	FullName     string    `gorm:"size:255;not null;index;comment:显示名" json:"full_name"`
	Avatar       string    `gorm:"size:500;comment:头像地址" json:"avatar"`
	AvatarObject string    `gorm:"size:500;comment:头像对象名" json:"-"`
	CoverImage   *string   `gorm:"size:500;comment:主页封面地址" json:"cover_image"`
	CoverObject  *string   `gorm:"size:500;comment:封面对象名" json:"-"`
	Password     string    `gorm:"size:255;not null;comment:密码哈希" json:"-"`
	RefreshToken string    `gorm:"size:1000;comment:当前有效的刷新令牌" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Videos []Video `gorm:"foreignKey:OwnerID" json:"videos,omitempty"`
	Tweets []Tweet `gorm:"foreignKey:OwnerID" json:"tweets,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// WatchHistory 观看历史，按 WatchedAt 倒序即为最近观看顺序
type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_video_watch;index:idx_watch_user;comment:观看用户ID" json:"user_id"`
	VideoID   int64     `gorm:"not null;uniqueIndex:uq_user_video_watch;comment:视频ID" json:"video_id"`
	WatchedAt time.Time `gorm:"not null;index:idx_watch_watched_at;comment:最近观看时间" json:"watched_at"`

	Video Video `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}
