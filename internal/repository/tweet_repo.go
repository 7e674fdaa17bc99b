package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(tweet *model.Tweet) error {
	return r.db.Create(tweet).Error
}

func (r *TweetRepository) GetByID(id int64) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.db.Preload("Owner").First(&tweet, id).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

// UpdateContent 更新内容（作者校验在 service 层完成）
func (r *TweetRepository) UpdateContent(tweetID int64, content string) error {
	return r.db.Model(&model.Tweet{}).
		Where("id = ?", tweetID).
		Update("content", content).Error
}

// Delete 删除动态（作者校验在 service 层完成）
func (r *TweetRepository) Delete(tweetID int64) error {
	return r.db.Delete(&model.Tweet{}, tweetID).Error
}

// ListByOwner 用户的动态列表（含作者投影，新动态在前）
func (r *TweetRepository) ListByOwner(ownerID int64, skip, limit int) ([]model.Tweet, int64, error) {
	query := r.db.Model(&model.Tweet{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tweets []model.Tweet
	err := query.Preload("Owner").
		Order("created_at DESC").Offset(skip).Limit(limit).Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}
