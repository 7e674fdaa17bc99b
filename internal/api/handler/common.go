package handler

import (
	"mime/multipart"
	"path/filepath"
	"strconv"

	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination 解析 page/limit 查询参数，非法值回退默认
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = defaultPage
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// openMediaFile 打开上传文件并包装为媒体文件描述，调用方负责 close
func openMediaFile(fh *multipart.FileHeader) (*service.MediaFile, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &service.MediaFile{
		Reader:      file,
		Size:        fh.Size,
		ContentType: contentType,
		Ext:         filepath.Ext(fh.Filename),
	}, file, nil
}
