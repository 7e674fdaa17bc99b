package service

import (
	"context"
	"io"
	"testing"

	"vidtube/internal/api/dto"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeMediaStore, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	media := &fakeMediaStore{}
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo, media, testJWTConfig()), media, userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, media, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("Alice"), testMediaFile("png"), nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username, "用户名应归一化为小写")
	assert.Len(t, media.uploads, 1)

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, tokens.User.ID)

	// 邮箱也能登录
	byEmail, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@test.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.User.ID)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("bob"), testMediaFile("png"), nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("bob"), testMediaFile("png"), nil)
	assert.ErrorIs(t, err, ErrUserExists)
}

// racingMediaStore 在上传头像的间隙插入同名用户，模拟预检查通过后才撞上唯一索引的并发注册
type racingMediaStore struct {
	fakeMediaStore
	insert   func()
	inserted bool
}

func (r *racingMediaStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if !r.inserted {
		r.inserted = true
		r.insert()
	}
	return r.fakeMediaStore.Upload(ctx, objectName, reader, size, contentType)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	media := &racingMediaStore{insert: func() {
		createTestUser(t, db, "dave")
	}}
	svc := NewAuthService(userRepo, media, testJWTConfig())

	_, err := svc.Register(context.Background(), registerRequest("dave"), testMediaFile("png"), nil)
	assert.ErrorIs(t, err, ErrUserExists)

	// 插入失败后已上传的头像要被清理
	require.Len(t, media.deletes, 1)
	assert.Contains(t, media.deletes[0], "avatars/")
}

func TestRegisterAvatarRequired(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), registerRequest("carol"), nil, nil)
	assert.ErrorIs(t, err, ErrAvatarRequired)
}

func TestRegisterCleansUpOnCoverFailure(t *testing.T) {
	svc, media, _ := newTestAuthService(t)
	media.failOn = "covers/"

	_, err := svc.Register(context.Background(), registerRequest("dave"), testMediaFile("png"), testMediaFile("jpg"))
	require.Error(t, err)
	// 封面上传失败后，已上传的头像对象要被清理
	require.Len(t, media.deletes, 1)
	assert.Contains(t, media.deletes[0], "avatars/")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("eve"), testMediaFile("png"), nil)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "eve", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, &dto.LoginRequest{Password: "password123"})
	assert.ErrorIs(t, err, ErrLoginFieldRequired)
}

func TestRefreshRotation(t *testing.T) {
	svc, _, userRepo := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("frank"), testMediaFile("png"), nil)
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "frank", Password: "password123"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "刷新后令牌必须轮换")

	// 旧令牌已被轮换淘汰，再次使用要失败
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenReused)

	// 新令牌仍然可用
	user, err := userRepo.GetByUsername("frank")
	require.NoError(t, err)
	assert.Equal(t, rotated.RefreshToken, user.RefreshToken)
}

func TestRefreshInvalidToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshRequired)

	_, err = svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("grace"), testMediaFile("png"), nil)
	require.NoError(t, err)
	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "grace", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.User.ID))

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenReused)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest("henry"), testMediaFile("png"), nil)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, ErrWrongOldPassword)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "newpassword",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "henry", Password: "newpassword"})
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	created, err := svc.Register(context.Background(), registerRequest("iris"), testMediaFile("png"), nil)
	require.NoError(t, err)

	user, err := svc.CurrentUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "iris", user.Username)

	_, err = svc.CurrentUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
