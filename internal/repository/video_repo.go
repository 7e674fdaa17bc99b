package repository

import (
	"strings"

	"vidtube/internal/model"

	"gorm.io/gorm"
)

// 允许的排序字段，其它值一律回退到 created_at
var videoSortFields = map[string]string{
	"created_at": "created_at",
	"views":      "view_count",
	"duration":   "duration",
}

// VideoListParams 视频列表查询参数
type VideoListParams struct {
	Skip          int
	Limit         int
	OwnerID       *int64
	OnlyPublished bool
	Query         string
	SortBy        string
	SortAsc       bool
	WithOwner     bool
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithOwner 根据 ID 获取视频（含作者信息）
func (r *VideoRepository) GetByIDWithOwner(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Owner").First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDAndOwner 根据视频 ID + 作者 ID 查询（权限校验用）
func (r *VideoRepository) GetByIDAndOwner(videoID, ownerID int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ? AND owner_id = ?", videoID, ownerID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Update 更新视频字段
func (r *VideoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除视频记录
func (r *VideoRepository) Delete(id int64) error {
	result := r.db.Delete(&model.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 视频列表查询（分页、筛选、排序、大小写不敏感子串搜索）
func (r *VideoRepository) List(p VideoListParams) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{})

	if p.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if p.OwnerID != nil {
		query = query.Where("owner_id = ?", *p.OwnerID)
	}
	if p.Query != "" {
		// LOWER + LIKE 使同一条查询在 Postgres 与 sqlite 上行为一致
		pattern := "%" + strings.ToLower(p.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := videoSortFields[p.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if p.SortAsc {
		direction = "ASC"
	}

	findQuery := query.Order(column + " " + direction).Offset(p.Skip).Limit(p.Limit)
	if p.WithOwner {
		findQuery = findQuery.Preload("Owner")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// GetByIDsWithOwner 批量查询视频（含作者），ES 搜索结果回表用
func (r *VideoRepository) GetByIDsWithOwner(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// IncrementViewCount 观看数 +1
func (r *VideoRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CountByOwner 统计作者的视频数与总播放量
func (r *VideoRepository) CountByOwner(ownerID int64) (videos int64, views int64, err error) {
	if err = r.db.Model(&model.Video{}).Where("owner_id = ?", ownerID).Count(&videos).Error; err != nil {
		return 0, 0, err
	}
	var sum struct{ Total int64 }
	err = r.db.Model(&model.Video{}).Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(view_count), 0) AS total").Scan(&sum).Error
	if err != nil {
		return 0, 0, err
	}
	return videos, sum.Total, nil
}
