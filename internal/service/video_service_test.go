package service

import (
	"context"
	"fmt"
	"testing"

	"vidtube/internal/api/dto"
	infraKafka "vidtube/internal/infra/kafka"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPublishVideo(t *testing.T) {
	db := newTestDB(t)
	media := &fakeMediaStore{}
	events := &fakeVideoEvents{}
	svc := newTestVideoService(db, media, events)
	owner := createTestUser(t, db, "publisher")

	video, err := svc.Publish(context.Background(), owner.ID,
		&dto.VideoPublishRequest{Title: "我的第一个视频", Description: "测试"},
		testMediaFile("mp4"), testMediaFile("jpg"))
	require.NoError(t, err)

	assert.True(t, video.IsPublished)
	assert.Equal(t, owner.ID, video.OwnerID)
	assert.Len(t, media.uploads, 2)
	assert.Equal(t, []string{infraKafka.EventVideoCreated}, events.events)
}

func TestPublishCleansUpOnCreateFailure(t *testing.T) {
	db := newTestDB(t)
	media := &fakeMediaStore{failOn: "thumbnails/"}
	svc := newTestVideoService(db, media, nil)
	owner := createTestUser(t, db, "publisher")

	_, err := svc.Publish(context.Background(), owner.ID,
		&dto.VideoPublishRequest{Title: "t"}, testMediaFile("mp4"), testMediaFile("jpg"))
	require.Error(t, err)
	// 缩略图上传失败后，已上传的视频对象要被清理
	require.Len(t, media.deletes, 1)
	assert.Contains(t, media.deletes[0], "videos/")
}

func TestListVideosPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "lister")

	for i := 0; i < 12; i++ {
		createTestVideo(t, db, owner.ID, fmt.Sprintf("video-%02d", i), true)
	}
	createTestVideo(t, db, owner.ID, "draft", false)

	data, err := svc.List(&dto.VideoListQuery{Page: 2, Limit: 5, SortBy: "created_at", SortType: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), data.Total, "未发布视频不应计入")
	assert.Len(t, data.Videos, 5)
	assert.Equal(t, int64(3), data.TotalPages)
	assert.Equal(t, 2, data.Page)
}

func TestListVideosSearch(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "searcher")

	createTestVideo(t, db, owner.ID, "Golang Tutorial", true)
	createTestVideo(t, db, owner.ID, "Cooking Show", true)

	data, err := svc.List(&dto.VideoListQuery{Page: 1, Limit: 10, Query: "golang"})
	require.NoError(t, err)
	require.Len(t, data.Videos, 1)
	assert.Equal(t, "Golang Tutorial", data.Videos[0].Title)
}

func TestGetDetailCountsViewsAndHistory(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "uploader")
	viewer := createTestUser(t, db, "viewer")
	video := createTestVideo(t, db, owner.ID, "watched", true)

	detail, err := svc.GetDetail(video.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.ViewCount)

	detail, err = svc.GetDetail(video.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ViewCount)

	// 重复观看只保留一条历史
	var count int64
	require.NoError(t, db.Model(&model.WatchHistory{}).
		Where("user_id = ?", viewer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetDetailUnpublishedVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	draft := createTestVideo(t, db, owner.ID, "draft", false)

	// 作者本人可见
	detail, err := svc.GetDetail(draft.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.ViewCount, "未发布视频不计播放")

	// 他人不可见
	_, err = svc.GetDetail(draft.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestUpdateVideoOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	video := createTestVideo(t, db, owner.ID, "original", true)

	newTitle := "updated"
	_, err := svc.Update(context.Background(), other.ID, video.ID,
		&dto.VideoUpdateRequest{Title: &newTitle}, nil)
	assert.ErrorIs(t, err, ErrNotVideoOwner)

	// 无权限的更新不应落库
	var unchanged model.Video
	require.NoError(t, db.First(&unchanged, video.ID).Error)
	assert.Equal(t, "original", unchanged.Title)

	updated, err := svc.Update(context.Background(), owner.ID, video.ID,
		&dto.VideoUpdateRequest{Title: &newTitle}, nil)
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Title)
}

func TestTogglePublish(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "toggle-me", true)

	updated, err := svc.TogglePublish(context.Background(), owner.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)

	updated, err = svc.TogglePublish(context.Background(), owner.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
}

func TestDeleteVideoCascades(t *testing.T) {
	db := newTestDB(t)
	media := &fakeMediaStore{}
	events := &fakeVideoEvents{}
	svc := newTestVideoService(db, media, events)
	owner := createTestUser(t, db, "owner")
	viewer := createTestUser(t, db, "viewer")
	video := createTestVideo(t, db, owner.ID, "doomed", true)

	comment := &model.Comment{OwnerID: viewer.ID, VideoID: video.ID, Content: "first"}
	require.NoError(t, db.Create(comment).Error)

	likeRepo := repository.NewLikeRepository(db)
	_, err := likeRepo.Create(viewer.ID, model.LikeTargetVideo, video.ID)
	require.NoError(t, err)
	_, err = likeRepo.Create(viewer.ID, model.LikeTargetComment, comment.ID)
	require.NoError(t, err)

	playlist := &model.Playlist{OwnerID: viewer.ID, Name: "favs", Description: "d"}
	require.NoError(t, db.Create(playlist).Error)
	playlistRepo := repository.NewPlaylistRepository(db)
	_, err = playlistRepo.AddVideo(playlist.ID, video.ID)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.WatchHistory{UserID: viewer.ID, VideoID: video.ID}).Error)

	require.NoError(t, svc.Delete(context.Background(), owner.ID, video.ID))

	for table, m := range map[string]interface{}{
		"comments":        &model.Comment{},
		"likes":           &model.Like{},
		"playlist_videos": &model.PlaylistVideo{},
		"watch_histories": &model.WatchHistory{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "表 %s 应被级联清空", table)
	}

	err = db.First(&model.Video{}, video.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ElementsMatch(t, []string{video.VideoObject, video.ThumbObject}, media.deletes)
	assert.Equal(t, []string{infraKafka.EventVideoDeleted}, events.events)
}

func TestDeleteVideoForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newTestVideoService(db, &fakeMediaStore{}, nil)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	video := createTestVideo(t, db, owner.ID, "protected", true)

	err := svc.Delete(context.Background(), other.ID, video.ID)
	assert.ErrorIs(t, err, ErrNotVideoOwner)

	assert.NoError(t, db.First(&model.Video{}, video.ID).Error)
}
