package service

import (
	"testing"

	"vidtube/internal/api/dto"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPlaylistService(db *gorm.DB) *PlaylistService {
	return NewPlaylistService(
		repository.NewPlaylistRepository(db),
		repository.NewVideoRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestPlaylistAddVideoSetSemantics(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPlaylistService(db)
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "v", true)

	playlist, err := svc.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "收藏夹", Description: "d"})
	require.NoError(t, err)

	added, err := svc.AddVideo(owner.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	require.Len(t, added.Videos, 1)

	// 重复添加是幂等的，不报错也不产生重复条目
	added, err = svc.AddVideo(owner.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	assert.Len(t, added.Videos, 1)
}

func TestPlaylistRemoveVideo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPlaylistService(db)
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "v", true)

	playlist, err := svc.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "p", Description: "d"})
	require.NoError(t, err)
	_, err = svc.AddVideo(owner.ID, playlist.ID, video.ID)
	require.NoError(t, err)

	removed, err := svc.RemoveVideo(owner.ID, playlist.ID, video.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Videos)

	// 不在列表中也视为成功
	_, err = svc.RemoveVideo(owner.ID, playlist.ID, video.ID)
	assert.NoError(t, err)
}

func TestPlaylistOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPlaylistService(db)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	video := createTestVideo(t, db, owner.ID, "v", true)

	playlist, err := svc.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "private", Description: "d"})
	require.NoError(t, err)

	_, err = svc.AddVideo(other.ID, playlist.ID, video.ID)
	assert.ErrorIs(t, err, ErrNotPlaylistOwner)

	name := "hijacked"
	_, err = svc.Update(other.ID, playlist.ID, &dto.PlaylistUpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotPlaylistOwner)

	err = svc.Delete(other.ID, playlist.ID)
	assert.ErrorIs(t, err, ErrNotPlaylistOwner)

	// 他人仍可查看
	detail, err := svc.GetDetail(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", detail.Name)
}

func TestPlaylistUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPlaylistService(db)
	owner := createTestUser(t, db, "owner")

	playlist, err := svc.Create(owner.ID, &dto.PlaylistCreateRequest{Name: "old", Description: "d"})
	require.NoError(t, err)

	name := "new"
	updated, err := svc.Update(owner.ID, playlist.ID, &dto.PlaylistUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Name)

	require.NoError(t, svc.Delete(owner.ID, playlist.ID))
	_, err = svc.GetDetail(playlist.ID)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)
}

func TestPlaylistListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestPlaylistService(db)
	owner := createTestUser(t, db, "owner")

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(owner.ID, &dto.PlaylistCreateRequest{Name: name, Description: "d"})
		require.NoError(t, err)
	}

	data, err := svc.ListByUser(owner.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), data.Total)
	assert.Len(t, data.Playlists, 2)
	assert.Equal(t, int64(2), data.TotalPages)

	_, err = svc.ListByUser(999, 1, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
