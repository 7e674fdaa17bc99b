package handler

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistSvc *service.PlaylistService
}

func NewPlaylistHandler(playlistSvc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistSvc: playlistSvc}
}

// Create 创建播放列表
// @Summary 创建播放列表
// @Tags playlists
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.PlaylistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	playlist, err := h.playlistSvc.Create(middleware.CurrentUserID(c), &req)
	if err != nil {
		response.InternalError(c, "创建播放列表失败")
		return
	}
	response.Created(c, playlist, "创建成功")
}

// GetByID 播放列表详情
// @Summary 播放列表详情
// @Tags playlists
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/{playlistId} [get]
func (h *PlaylistHandler) GetByID(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		response.BadRequest(c, "播放列表 ID 无效")
		return
	}

	playlist, err := h.playlistSvc.GetDetail(playlistID)
	if err != nil {
		if errors.Is(err, service.ErrPlaylistNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取播放列表失败")
		return
	}
	response.OK(c, playlist, "获取成功")
}

// Update 更新播放列表
// @Summary 更新播放列表
// @Tags playlists
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/{playlistId} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		response.BadRequest(c, "播放列表 ID 无效")
		return
	}

	var req dto.PlaylistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	playlist, err := h.playlistSvc.Update(middleware.CurrentUserID(c), playlistID, &req)
	if err != nil {
		h.renderPlaylistError(c, err, "更新播放列表失败")
		return
	}
	response.OK(c, playlist, "更新成功")
}

// Delete 删除播放列表
// @Summary 删除播放列表
// @Tags playlists
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/{playlistId} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		response.BadRequest(c, "播放列表 ID 无效")
		return
	}

	if err := h.playlistSvc.Delete(middleware.CurrentUserID(c), playlistID); err != nil {
		h.renderPlaylistError(c, err, "删除播放列表失败")
		return
	}
	response.OK(c, nil, "删除成功")
}

// AddVideo 添加视频到播放列表
// @Summary 添加视频到播放列表
// @Tags playlists
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	h.modifyVideos(c, h.playlistSvc.AddVideo, "添加成功")
}

// RemoveVideo 从播放列表移除视频
// @Summary 从播放列表移除视频
// @Tags playlists
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	h.modifyVideos(c, h.playlistSvc.RemoveVideo, "移除成功")
}

// ListByUser 用户的播放列表集合
// @Summary 用户的播放列表
// @Tags playlists
// @Produce json
// @Success 200 {object} response.Response
// @Router /playlists/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		response.BadRequest(c, "用户 ID 无效")
		return
	}

	page, limit := parsePagination(c)
	data, err := h.playlistSvc.ListByUser(userID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取播放列表失败")
		return
	}
	response.OK(c, data, "获取成功")
}

func (h *PlaylistHandler) modifyVideos(c *gin.Context, op func(ownerID, playlistID, videoID int64) (*dto.PlaylistInfo, error), message string) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}
	playlistID, ok := parseIDParam(c, "playlistId")
	if !ok {
		response.BadRequest(c, "播放列表 ID 无效")
		return
	}

	playlist, err := op(middleware.CurrentUserID(c), playlistID, videoID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		h.renderPlaylistError(c, err, "操作失败")
		return
	}
	response.OK(c, playlist, message)
}

func (h *PlaylistHandler) renderPlaylistError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlaylistNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotPlaylistOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, fallback)
	}
}
