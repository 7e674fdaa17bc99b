package service

import (
	"context"
	"testing"

	"vidtube/internal/api/dto"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUserService(db *gorm.DB, media MediaStore) *UserService {
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		media,
	)
}

func TestUpdateAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestUserService(db, &fakeMediaStore{})
	user := createTestUser(t, db, "original")
	other := createTestUser(t, db, "other")

	fullName := "New Name"
	updated, err := svc.UpdateAccount(context.Background(), user.ID, &dto.UpdateAccountRequest{FullName: &fullName})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	assert.Equal(t, user.Email, updated.Email, "未提供的字段不应改动")

	// 改成他人邮箱要冲突
	taken := other.Email
	_, err = svc.UpdateAccount(context.Background(), user.ID, &dto.UpdateAccountRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// 改成自己当前邮箱是允许的
	own := user.Email
	_, err = svc.UpdateAccount(context.Background(), user.ID, &dto.UpdateAccountRequest{Email: &own})
	assert.NoError(t, err)
}

func TestUpdateAvatarReplacesOldObject(t *testing.T) {
	db := newTestDB(t)
	media := &fakeMediaStore{}
	svc := newTestUserService(db, media)
	user := createTestUser(t, db, "pic")
	require.NoError(t, db.Model(user).Update("avatar_object", "avatars/old").Error)

	updated, err := svc.UpdateAvatar(context.Background(), user.ID, testMediaFile("png"))
	require.NoError(t, err)
	assert.Contains(t, updated.Avatar, "avatars/")

	// 旧头像对象要被清理
	assert.Equal(t, []string{"avatars/old"}, media.deletes)
}

func TestChannelProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newTestUserService(db, &fakeMediaStore{})
	channel := createTestUser(t, db, "channel")
	fan := createTestUser(t, db, "fan")

	subRepo := repository.NewSubscriptionRepository(db)
	_, err := subRepo.Create(fan.ID, channel.ID)
	require.NoError(t, err)

	// 订阅者视角
	profile, err := svc.ChannelProfile("channel", fan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscriberCount)
	assert.True(t, profile.IsSubscribed)

	// 未登录视角
	profile, err = svc.ChannelProfile("channel", 0)
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = svc.ChannelProfile("ghost", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWatchHistoryOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := newTestUserService(db, &fakeMediaStore{})
	owner := createTestUser(t, db, "owner")
	viewer := createTestUser(t, db, "viewer")

	first := createTestVideo(t, db, owner.ID, "first", true)
	second := createTestVideo(t, db, owner.ID, "second", true)

	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.UpsertWatchHistory(viewer.ID, first.ID))
	require.NoError(t, userRepo.UpsertWatchHistory(viewer.ID, second.ID))
	// 回看 first，应排到最前
	require.NoError(t, userRepo.UpsertWatchHistory(viewer.ID, first.ID))

	data, err := svc.WatchHistory(viewer.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), data.Total, "重复观看不产生重复条目")
	assert.Equal(t, first.ID, data.History[0].Video.ID)
	assert.Equal(t, second.ID, data.History[1].Video.ID)
}
