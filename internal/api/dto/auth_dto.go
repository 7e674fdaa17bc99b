package dto

// RegisterRequest 注册请求（multipart/form-data，头像文件单独处理）
type RegisterRequest struct {
	FullName string `form:"fullName" binding:"required,min=1,max=255"`
	Email    string `form:"email" binding:"required,email,max=255"`
	Username string `form:"username" binding:"required,min=1,max=255"`
	Password string `form:"password" binding:"required,min=6,max=255"`
}

// LoginRequest 登录请求，用户名与邮箱二选一
type LoginRequest struct {
	Username string `json:"username" binding:"omitempty,max=255"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

// RefreshRequest 刷新令牌请求（也可从 Cookie 读取）
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=255"`
}

// TokenData 登录/刷新成功返回的令牌数据
type TokenData struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         *UserInfo `json:"user,omitempty"`
}
