package handler

import (
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Stats 频道统计
// @Summary 频道统计
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardSvc.ChannelStats(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, "获取频道统计失败")
		return
	}
	response.OK(c, stats, "获取成功")
}

// Videos 频道全部视频（含未发布）
// @Summary 频道全部视频
// @Tags dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	page, limit := parsePagination(c)
	data, err := h.dashboardSvc.ChannelVideos(middleware.CurrentUserID(c), page, limit)
	if err != nil {
		response.InternalError(c, "获取频道视频失败")
		return
	}
	response.OK(c, data, "获取成功")
}
