package repository

import (
	"vidtube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *PlaylistRepository) GetByID(id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.First(&playlist, id).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetByIDWithOwner 根据 ID 获取播放列表（含创建者投影）
func (r *PlaylistRepository) GetByIDWithOwner(id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.Preload("Owner").First(&playlist, id).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update 更新名称/描述
func (r *PlaylistRepository) Update(id int64, updates map[string]interface{}) (*model.Playlist, error) {
	result := r.db.Model(&model.Playlist{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除播放列表及其视频关联
func (r *PlaylistRepository) Delete(id int64) error {
	if err := r.db.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
		return err
	}
	result := r.db.Delete(&model.Playlist{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByOwner 用户的播放列表
func (r *PlaylistRepository) ListByOwner(ownerID int64, skip, limit int) ([]model.Playlist, int64, error) {
	query := r.db.Model(&model.Playlist{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var playlists []model.Playlist
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}
	return playlists, total, nil
}

// AddVideo 集合并集语义：已存在则不重复插入，返回是否新增
func (r *PlaylistRepository) AddVideo(playlistID, videoID int64) (bool, error) {
	entry := model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_id"}},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveVideo 从播放列表移除视频，返回是否确有移除
func (r *PlaylistRepository) RemoveVideo(playlistID, videoID int64) (bool, error) {
	result := r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveVideoFromAll 将视频从所有播放列表移除（删视频时级联）
func (r *PlaylistRepository) RemoveVideoFromAll(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{}).Error
}

// ListVideos 播放列表内的视频（含作者投影），按加入顺序
func (r *PlaylistRepository) ListVideos(playlistID int64) ([]model.PlaylistVideo, error) {
	var entries []model.PlaylistVideo
	err := r.db.Preload("Video").Preload("Video.Owner").
		Where("playlist_id = ?", playlistID).
		Order("added_at ASC").Find(&entries).Error
	return entries, err
}
