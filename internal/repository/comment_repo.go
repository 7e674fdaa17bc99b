package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("Owner").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent 更新评论内容（作者校验在 service 层完成）
func (r *CommentRepository) UpdateContent(commentID int64, content string) error {
	return r.db.Model(&model.Comment{}).
		Where("id = ?", commentID).
		Update("content", content).Error
}

// Delete 删除评论（作者校验在 service 层完成）
func (r *CommentRepository) Delete(commentID int64) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}

// DeleteByVideo 删除视频下的全部评论（删视频时级联）
func (r *CommentRepository) DeleteByVideo(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}

// ListByVideo 视频评论列表（含作者投影，新评论在前）
func (r *CommentRepository) ListByVideo(videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Owner").
		Order("created_at DESC").Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
