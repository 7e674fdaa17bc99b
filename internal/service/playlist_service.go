package service

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrPlaylistNotFound = errors.New("播放列表不存在")
	ErrNotPlaylistOwner = errors.New("无权操作该播放列表")
)

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	videoRepo    *repository.VideoRepository
	userRepo     *repository.UserRepository
}

func NewPlaylistService(playlistRepo *repository.PlaylistRepository, videoRepo *repository.VideoRepository, userRepo *repository.UserRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

// Create 创建播放列表
func (s *PlaylistService) Create(ownerID int64, req *dto.PlaylistCreateRequest) (*dto.PlaylistInfo, error) {
	playlist := &model.Playlist{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}
	return toPlaylistInfo(playlist, nil), nil
}

// GetDetail 播放列表详情，含视频列表
func (s *PlaylistService) GetDetail(playlistID int64) (*dto.PlaylistInfo, error) {
	playlist, err := s.playlistRepo.GetByIDWithOwner(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	entries, err := s.playlistRepo.ListVideos(playlistID)
	if err != nil {
		return nil, err
	}

	videos := make([]dto.VideoInfo, 0, len(entries))
	for i := range entries {
		videos = append(videos, toVideoInfo(&entries[i].Video))
	}
	return toPlaylistInfo(playlist, videos), nil
}

// Update 更新播放列表，仅创建者可操作
func (s *PlaylistService) Update(ownerID, playlistID int64, req *dto.PlaylistUpdateRequest) (*dto.PlaylistInfo, error) {
	if _, err := s.ownedPlaylist(playlistID, ownerID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return s.GetDetail(playlistID)
	}

	updated, err := s.playlistRepo.Update(playlistID, updates)
	if err != nil {
		return nil, err
	}
	return toPlaylistInfo(updated, nil), nil
}

// Delete 删除播放列表及其条目，仅创建者可操作
func (s *PlaylistService) Delete(ownerID, playlistID int64) error {
	if _, err := s.ownedPlaylist(playlistID, ownerID); err != nil {
		return err
	}
	return s.playlistRepo.Delete(playlistID)
}

// AddVideo 将视频加入播放列表，重复加入视为成功（集合语义）
func (s *PlaylistService) AddVideo(ownerID, playlistID, videoID int64) (*dto.PlaylistInfo, error) {
	if _, err := s.ownedPlaylist(playlistID, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if _, err := s.playlistRepo.AddVideo(playlistID, videoID); err != nil {
		return nil, err
	}
	return s.GetDetail(playlistID)
}

// RemoveVideo 从播放列表移除视频，不在列表中也视为成功
func (s *PlaylistService) RemoveVideo(ownerID, playlistID, videoID int64) (*dto.PlaylistInfo, error) {
	if _, err := s.ownedPlaylist(playlistID, ownerID); err != nil {
		return nil, err
	}

	if _, err := s.playlistRepo.RemoveVideo(playlistID, videoID); err != nil {
		return nil, err
	}
	return s.GetDetail(playlistID)
}

// ListByUser 某用户的播放列表集合
func (s *PlaylistService) ListByUser(userID int64, page, limit int) (*dto.PlaylistListData, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	skip := (page - 1) * limit
	playlists, total, err := s.playlistRepo.ListByOwner(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	list := make([]dto.PlaylistInfo, 0, len(playlists))
	for i := range playlists {
		list = append(list, *toPlaylistInfo(&playlists[i], nil))
	}

	return &dto.PlaylistListData{
		Playlists:  list,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *PlaylistService) ownedPlaylist(playlistID, ownerID int64) (*model.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(playlistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	if playlist.OwnerID != ownerID {
		return nil, ErrNotPlaylistOwner
	}
	return playlist, nil
}

func toPlaylistInfo(p *model.Playlist, videos []dto.VideoInfo) *dto.PlaylistInfo {
	return &dto.PlaylistInfo{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Owner:       toOwnerBrief(&p.Owner),
		Videos:      videos,
	}
}
