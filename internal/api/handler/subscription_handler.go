package handler

import (
	"errors"

	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subSvc *service.SubscriptionService
}

func NewSubscriptionHandler(subSvc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subSvc: subSvc}
}

// Toggle 订阅开关
// @Summary 订阅开关
// @Tags subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		response.BadRequest(c, "频道 ID 无效")
		return
	}

	result, err := h.subSvc.Toggle(middleware.CurrentUserID(c), channelID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotSubscribeSelf):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "操作失败")
		}
		return
	}
	response.OK(c, result, "操作成功")
}

// Subscribers 频道的订阅者列表
// @Summary 频道的订阅者
// @Tags subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := parseIDParam(c, "channelId")
	if !ok {
		response.BadRequest(c, "频道 ID 无效")
		return
	}

	page, limit := parsePagination(c)
	data, err := h.subSvc.Subscribers(channelID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取订阅者失败")
		return
	}
	response.OK(c, data, "获取成功")
}

// SubscribedChannels 用户订阅的频道列表
// @Summary 订阅的频道
// @Tags subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, ok := parseIDParam(c, "subscriberId")
	if !ok {
		response.BadRequest(c, "用户 ID 无效")
		return
	}

	page, limit := parsePagination(c)
	data, err := h.subSvc.SubscribedChannels(subscriberID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取订阅频道失败")
		return
	}
	response.OK(c, data, "获取成功")
}
