package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(userID int64, targetType model.LikeTargetType, targetID int64) (*model.Like, error) {
	like := &model.Like{UserID: userID, TargetType: targetType, TargetID: targetID}
	if err := r.db.Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

func (r *LikeRepository) Delete(userID int64, targetType model.LikeTargetType, targetID int64) (bool, error) {
	result := r.db.
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Exists(userID int64, targetType model.LikeTargetType, targetID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error
	return count > 0, err
}

// CountByTarget 统计目标的点赞总数
func (r *LikeRepository) CountByTarget(targetType model.LikeTargetType, targetID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

// DeleteByTarget 删除目标下的全部点赞（删视频/评论时级联）
func (r *LikeRepository) DeleteByTarget(targetType model.LikeTargetType, targetID int64) error {
	return r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&model.Like{}).Error
}

// DeleteByVideoComments 删除视频全部评论上的点赞（删视频时级联）
func (r *LikeRepository) DeleteByVideoComments(videoID int64) error {
	sub := r.db.Model(&model.Comment{}).Select("id").Where("video_id = ?", videoID)
	return r.db.Where("target_type = ? AND target_id IN (?)", model.LikeTargetComment, sub).
		Delete(&model.Like{}).Error
}

// ListLikedVideoIDs 用户点过赞的视频 ID，最近点赞在前
func (r *LikeRepository) ListLikedVideoIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Like{}).
		Where("user_id = ? AND target_type = ?", userID, model.LikeTargetVideo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("target_id", &ids).Error
	return ids, total, err
}

// CountReceivedOnVideos 统计某作者全部视频收到的点赞总数（频道面板用）
func (r *LikeRepository) CountReceivedOnVideos(ownerID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Joins("JOIN videos ON videos.id = likes.target_id").
		Where("likes.target_type = ? AND videos.owner_id = ?", model.LikeTargetVideo, ownerID).
		Count(&count).Error
	return count, err
}
