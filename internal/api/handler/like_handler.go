package handler

import (
	"errors"

	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/model"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeSvc *service.LikeService
}

func NewLikeHandler(likeSvc *service.LikeService) *LikeHandler {
	return &LikeHandler{likeSvc: likeSvc}
}

// ToggleVideoLike 视频点赞开关
// @Summary 视频点赞开关
// @Tags likes
// @Produce json
// @Success 200 {object} response.Response
// @Router /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, "videoId", model.LikeTargetVideo)
}

// ToggleCommentLike 评论点赞开关
// @Summary 评论点赞开关
// @Tags likes
// @Produce json
// @Success 200 {object} response.Response
// @Router /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, "commentId", model.LikeTargetComment)
}

// ToggleTweetLike 动态点赞开关
// @Summary 动态点赞开关
// @Tags likes
// @Produce json
// @Success 200 {object} response.Response
// @Router /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, "tweetId", model.LikeTargetTweet)
}

// LikedVideos 点赞过的视频列表
// @Summary 点赞过的视频
// @Tags likes
// @Produce json
// @Success 200 {object} response.Response
// @Router /likes/videos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	page, limit := parsePagination(c)
	data, err := h.likeSvc.LikedVideos(middleware.CurrentUserID(c), page, limit)
	if err != nil {
		response.InternalError(c, "获取点赞列表失败")
		return
	}
	response.OK(c, data, "获取成功")
}

func (h *LikeHandler) toggle(c *gin.Context, param string, targetType model.LikeTargetType) {
	targetID, ok := parseIDParam(c, param)
	if !ok {
		response.BadRequest(c, "目标 ID 无效")
		return
	}

	result, err := h.likeSvc.Toggle(middleware.CurrentUserID(c), targetType, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound),
			errors.Is(err, service.ErrTweetNotFound),
			errors.Is(err, service.ErrLikeTargetNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "操作失败")
		}
		return
	}
	response.OK(c, result, "操作成功")
}
