package handler

import (
	"context"
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/config"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authSvc *service.AuthService
	userSvc *service.UserService
	jwtCfg  *config.JWTConfig
}

func NewUserHandler(authSvc *service.AuthService, userSvc *service.UserService, jwtCfg *config.JWTConfig) *UserHandler {
	return &UserHandler{authSvc: authSvc, userSvc: userSvc, jwtCfg: jwtCfg}
}

// Register 用户注册
// @Summary 用户注册
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response
// @Router /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	avatarHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "头像文件不能为空")
		return
	}
	avatar, avatarFile, err := openMediaFile(avatarHeader)
	if err != nil {
		response.BadRequest(c, "头像文件读取失败")
		return
	}
	defer avatarFile.Close()

	var cover *service.MediaFile
	if coverHeader, coverErr := c.FormFile("coverImage"); coverErr == nil {
		media, coverFile, openErr := openMediaFile(coverHeader)
		if openErr != nil {
			response.BadRequest(c, "封面文件读取失败")
			return
		}
		defer coverFile.Close()
		cover = media
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req, avatar, cover)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrAvatarRequired):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "注册失败")
		}
		return
	}

	response.Created(c, user, "注册成功")
}

// Login 用户登录，令牌同时写入 Cookie 与响应体
// @Summary 用户登录
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	tokens, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginFieldRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrInvalidCredential):
			response.Unauthorized(c, err.Error())
		default:
			response.InternalError(c, "登录失败")
		}
		return
	}

	h.setAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)
	response.OK(c, tokens, "登录成功")
}

// Logout 登出，清除刷新令牌与 Cookie
// @Summary 用户登出
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		response.InternalError(c, "登出失败")
		return
	}

	h.clearAuthCookies(c)
	response.OK(c, nil, "登出成功")
}

// RefreshToken 刷新令牌（轮换），令牌取自请求体或 Cookie
// @Summary 刷新令牌
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/refresh-token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	_ = c.ShouldBindJSON(&req)

	presented := req.RefreshToken
	if presented == "" {
		presented, _ = c.Cookie(middleware.RefreshTokenCookie)
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), presented)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshRequired):
			response.BadRequest(c, err.Error())
		default:
			h.clearAuthCookies(c)
			response.Unauthorized(c, "刷新令牌无效，请重新登录")
		}
		return
	}

	h.setAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)
	response.OK(c, tokens, "令牌已刷新")
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongOldPassword):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "修改密码失败")
		}
		return
	}

	response.OK(c, nil, "密码修改成功")
}

// CurrentUser 当前登录用户信息
// @Summary 当前用户
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/current-user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	user, err := h.authSvc.CurrentUser(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取用户信息失败")
		return
	}
	response.OK(c, user, "获取成功")
}

// UpdateAccount 更新账号资料
// @Summary 更新账号资料
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err.Error())
		return
	}

	user, err := h.userSvc.UpdateAccount(c.Request.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "更新失败")
		}
		return
	}
	response.OK(c, user, "更新成功")
}

// UpdateAvatar 更新头像
// @Summary 更新头像
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.userSvc.UpdateAvatar)
}

// UpdateCoverImage 更新封面图
// @Summary 更新封面图
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.userSvc.UpdateCoverImage)
}

// ChannelProfile 频道主页
// @Summary 频道主页
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/c/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "用户名不能为空")
		return
	}

	profile, err := h.userSvc.ChannelProfile(username, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "获取频道信息失败")
		return
	}
	response.OK(c, profile, "获取成功")
}

// WatchHistory 观看历史
// @Summary 观看历史
// @Tags users
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	page, limit := parsePagination(c)
	data, err := h.userSvc.WatchHistory(middleware.CurrentUserID(c), page, limit)
	if err != nil {
		response.InternalError(c, "获取观看历史失败")
		return
	}
	response.OK(c, data, "获取成功")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID int64, file *service.MediaFile) (*dto.UserInfo, error)) {
	header, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, "文件不能为空")
		return
	}
	media, file, err := openMediaFile(header)
	if err != nil {
		response.BadRequest(c, "文件读取失败")
		return
	}
	defer file.Close()

	user, err := update(c.Request.Context(), middleware.CurrentUserID(c), media)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, "更新失败")
		return
	}
	response.OK(c, user, "更新成功")
}

func (h *UserHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(h.jwtCfg.AccessExpireDuration().Seconds()), "/", "", true, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken,
		int(h.jwtCfg.RefreshExpireDuration().Seconds()), "/", "", true, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", true, true)
}
