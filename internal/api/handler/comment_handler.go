package handler

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc *service.CommentService
}

func NewCommentHandler(commentSvc *service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// ListByVideo 视频评论列表
// @Summary 视频评论列表
// @Tags comments
// @Produce json
// @Success 200 {object} response.Response
// @Router /comments/{videoId} [get]
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	page, limit := parsePagination(c)
	data, err := h.commentSvc.ListByVideo(videoID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取评论失败")
		return
	}
	response.OK(c, data, "获取成功")
}

// Create 发表评论
// @Summary 发表评论
// @Tags comments
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Router /comments/{videoId} [post]
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, ok := parseIDParam(c, "videoId")
	if !ok {
		response.BadRequest(c, "视频 ID 无效")
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	comment, err := h.commentSvc.Create(middleware.CurrentUserID(c), videoID, &req)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "发表评论失败")
		return
	}
	response.Created(c, comment, "评论成功")
}

// Update 更新评论
// @Summary 更新评论
// @Tags comments
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /comments/c/{commentId} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		response.BadRequest(c, "评论 ID 无效")
		return
	}

	var req dto.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	comment, err := h.commentSvc.Update(middleware.CurrentUserID(c), commentID, &req)
	if err != nil {
		renderCommentError(c, err, "更新评论失败")
		return
	}
	response.OK(c, comment, "更新成功")
}

// Delete 删除评论
// @Summary 删除评论
// @Tags comments
// @Produce json
// @Success 200 {object} response.Response
// @Router /comments/c/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		response.BadRequest(c, "评论 ID 无效")
		return
	}

	if err := h.commentSvc.Delete(middleware.CurrentUserID(c), commentID); err != nil {
		renderCommentError(c, err, "删除评论失败")
		return
	}
	response.OK(c, nil, "删除成功")
}

func renderCommentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotCommentOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, fallback)
	}
}
