package handler

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetSvc *service.TweetService
}

func NewTweetHandler(tweetSvc *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetSvc: tweetSvc}
}

// Create 发布动态
// @Summary 发布动态
// @Tags tweets
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Router /tweets [post]
func (h *TweetHandler) Create(c *gin.Context) {
	var req dto.TweetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	tweet, err := h.tweetSvc.Create(middleware.CurrentUserID(c), &req)
	if err != nil {
		response.InternalError(c, "发布动态失败")
		return
	}
	response.Created(c, tweet, "发布成功")
}

// ListByUser 用户的动态列表
// @Summary 用户的动态
// @Tags tweets
// @Produce json
// @Success 200 {object} response.Response
// @Router /tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		response.BadRequest(c, "用户 ID 无效")
		return
	}

	page, limit := parsePagination(c)
	data, err := h.tweetSvc.ListByUser(userID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取动态失败")
		return
	}
	response.OK(c, data, "获取成功")
}

// Update 更新动态
// @Summary 更新动态
// @Tags tweets
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /tweets/{tweetId} [patch]
func (h *TweetHandler) Update(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweetId")
	if !ok {
		response.BadRequest(c, "动态 ID 无效")
		return
	}

	var req dto.TweetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	tweet, err := h.tweetSvc.Update(middleware.CurrentUserID(c), tweetID, &req)
	if err != nil {
		renderTweetError(c, err, "更新动态失败")
		return
	}
	response.OK(c, tweet, "更新成功")
}

// Delete 删除动态
// @Summary 删除动态
// @Tags tweets
// @Produce json
// @Success 200 {object} response.Response
// @Router /tweets/{tweetId} [delete]
func (h *TweetHandler) Delete(c *gin.Context) {
	tweetID, ok := parseIDParam(c, "tweetId")
	if !ok {
		response.BadRequest(c, "动态 ID 无效")
		return
	}

	if err := h.tweetSvc.Delete(middleware.CurrentUserID(c), tweetID); err != nil {
		renderTweetError(c, err, "删除动态失败")
		return
	}
	response.OK(c, nil, "删除成功")
}

func renderTweetError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTweetNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotTweetOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, fallback)
	}
}
