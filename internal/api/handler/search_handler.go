package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchSvc *service.SearchService
}

func NewSearchHandler(searchSvc *service.SearchService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc}
}

// SearchVideos 视频搜索
// @Summary 视频搜索
// @Tags search
// @Produce json
// @Success 200 {object} response.Response
// @Router /search/videos [get]
func (h *SearchHandler) SearchVideos(c *gin.Context) {
	var req dto.SearchVideoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "查询参数错误", err.Error())
		return
	}

	data, err := h.searchSvc.SearchVideos(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, "搜索失败")
		return
	}
	response.OK(c, data, "搜索成功")
}
