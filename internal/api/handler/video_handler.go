package handler

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoSvc *service.VideoService
}

func NewVideoHandler(videoSvc *service.VideoService) *VideoHandler {
	return &VideoHandler{videoSvc: videoSvc}
}

// List 视频列表
// @Summary 视频列表
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var query dto.VideoListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "查询参数错误", err.Error())
		return
	}

	data, err := h.videoSvc.List(&query)
	if err != nil {
		response.InternalError(c, "获取视频列表失败")
		return
	}
	response.OK(c, data, "获取成功")
}

// Publish 发布视频
// @Summary 发布视频
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response
// @Router /videos [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	var req dto.VideoPublishRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	videoHeader, err := c.FormFile("videoFile")
	if err != nil {
		response.BadRequest(c, "视频文件不能为空")
		return
	}
	videoFile, vf, err := openMediaFile(videoHeader)
	if err != nil {
		response.BadRequest(c, "视频文件读取失败")
		return
	}
	defer vf.Close()

	thumbHeader, err := c.FormFile("thumbnail")
	if err != nil {
		response.BadRequest(c, "缩略图不能为空")
		return
	}
	thumb, tf, err := openMediaFile(thumbHeader)
	if err != nil {
		response.BadRequest(c, "缩略图读取失败")
		return
	}
	defer tf.Close()

	video, err := h.videoSvc.Publish(c.Request.Context(), middleware.CurrentUserID(c), &req, videoFile, thumb)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoFileRequired), errors.Is(err, service.ErrThumbRequired):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "发布视频失败")
		}
		return
	}
	response.Created(c, video, "发布成功")
}

// GetByID 视频详情
// @Summary 视频详情
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response
// @Router /videos/{videoId} [get]
func (h *VideoHandler) GetByID(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	video, err := h.videoSvc.GetDetail(videoID, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取视频失败")
		return
	}
	response.OK(c, video, "获取成功")
}

// Update 更新视频资料
// @Summary 更新视频资料
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Response
// @Router /videos/{videoId} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	var req dto.VideoUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	var thumb *service.MediaFile
	if thumbHeader, thumbErr := c.FormFile("thumbnail"); thumbErr == nil {
		media, tf, openErr := openMediaFile(thumbHeader)
		if openErr != nil {
			response.BadRequest(c, "缩略图读取失败")
			return
		}
		defer tf.Close()
		thumb = media
	}

	video, err := h.videoSvc.Update(c.Request.Context(), middleware.CurrentUserID(c), videoID, &req, thumb)
	if err != nil {
		h.renderVideoError(c, err, "更新视频失败")
		return
	}
	response.OK(c, video, "更新成功")
}

// Delete 删除视频
// @Summary 删除视频
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response
// @Router /videos/{videoId} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	if err := h.videoSvc.Delete(c.Request.Context(), middleware.CurrentUserID(c), videoID); err != nil {
		h.renderVideoError(c, err, "删除视频失败")
		return
	}
	response.OK(c, nil, "删除成功")
}

// TogglePublish 切换发布状态
// @Summary 切换发布状态
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response
// @Router /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	video, err := h.videoSvc.TogglePublish(c.Request.Context(), middleware.CurrentUserID(c), videoID)
	if err != nil {
		h.renderVideoError(c, err, "切换发布状态失败")
		return
	}
	response.OK(c, video, "操作成功")
}

func (h *VideoHandler) renderVideoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotVideoOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, fallback)
	}
}
