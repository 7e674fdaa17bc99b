package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/api/dto"
	"vidtube/internal/config"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"
	"vidtube/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserExists         = errors.New("用户名或邮箱已被占用")
	ErrInvalidCredential  = errors.New("用户名或密码错误")
	ErrLoginFieldRequired = errors.New("用户名或邮箱至少填写一项")
	ErrAvatarRequired     = errors.New("头像文件不能为空")
	ErrRefreshRequired    = errors.New("缺少刷新令牌")
	ErrInvalidRefresh     = errors.New("无效的刷新令牌")
	ErrTokenReused        = errors.New("刷新令牌已过期或已被使用")
	ErrWrongOldPassword   = errors.New("原密码错误")
)

type AuthService struct {
	userRepo *repository.UserRepository
	media    MediaStore
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo *repository.UserRepository, media MediaStore, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, media: media, jwtCfg: jwtCfg}
}

// Register 用户注册：头像必传，封面可选
// 建表失败时删除已上传对象（补偿动作）
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, avatar, cover *MediaFile) (*dto.UserInfo, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	if avatar == nil {
		return nil, ErrAvatarRequired
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarObject := fmt.Sprintf("avatars/%s-%d%s", username, time.Now().UnixNano(), avatar.Ext)
	avatarURL, err := s.media.Upload(ctx, avatarObject, avatar.Reader, avatar.Size, avatar.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传头像失败: %w", err)
	}

	uploaded := []string{avatarObject}

	user := &model.User{
		UserName:     username,
		Email:        email,
		FullName:     req.FullName,
		Avatar:       avatarURL,
		AvatarObject: avatarObject,
		Password:     hashedPassword,
	}

	if cover != nil {
		coverObject := fmt.Sprintf("covers/%s-%d%s", username, time.Now().UnixNano(), cover.Ext)
		coverURL, err := s.media.Upload(ctx, coverObject, cover.Reader, cover.Size, cover.ContentType)
		if err != nil {
			s.cleanupObjects(ctx, uploaded)
			return nil, fmt.Errorf("上传封面失败: %w", err)
		}
		uploaded = append(uploaded, coverObject)
		user.CoverImage = &coverURL
		user.CoverObject = &coverObject
	}

	if err := s.userRepo.Create(user); err != nil {
		s.cleanupObjects(ctx, uploaded)
		// 预检查和插入之间的并发注册会撞上唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return toUserInfo(user), nil
}

// Login 用户登录，签发访问令牌与刷新令牌并持久化刷新令牌
// 单一活跃会话：新登录使其它会话的刷新令牌失效
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	if req.Username == "" && req.Email == "" {
		return nil, ErrLoginFieldRequired
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByUsernameOrEmail(username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	return s.issueTokens(user)
}

// Refresh 刷新令牌轮换：提交的令牌必须与用户记录上保存的一致
func (s *AuthService) Refresh(ctx context.Context, presented string) (*dto.TokenData, error) {
	if presented == "" {
		return nil, ErrRefreshRequired
	}

	claims, err := utils.ParseToken(presented, utils.TokenTypeRefresh, s.jwtCfg.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		return nil, ErrTokenReused
	}

	return s.issueTokens(user)
}

// Logout 登出：清除持久化的刷新令牌
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.userRepo.SetRefreshToken(userID, "")
}

// ChangePassword 修改密码（需验证原密码）
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.OldPassword, user.Password) {
		return ErrWrongOldPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.userRepo.Update(userID, map[string]interface{}{"password": hashed})
	return err
}

// CurrentUser 获取当前登录用户信息
func (s *AuthService) CurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *AuthService) issueTokens(user *model.User) (*dto.TokenData, error) {
	accessToken, err := utils.GenerateToken(
		user.ID, utils.TokenTypeAccess, s.jwtCfg.AccessSecret, s.jwtCfg.Issuer, s.jwtCfg.AccessExpireDuration())
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateToken(
		user.ID, utils.TokenTypeRefresh, s.jwtCfg.RefreshSecret, s.jwtCfg.Issuer, s.jwtCfg.RefreshExpireDuration())
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &dto.TokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserInfo(user),
	}, nil
}

func (s *AuthService) cleanupObjects(ctx context.Context, objects []string) {
	for _, object := range objects {
		if err := s.media.Delete(ctx, object); err != nil {
			logger.Warn("Cleanup uploaded object failed",
				zap.String("object", object), zap.Error(err))
		}
	}
}
