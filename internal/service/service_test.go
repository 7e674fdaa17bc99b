package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"vidtube/internal/api/dto"
	"vidtube/internal/config"
	infraKafka "vidtube/internal/infra/kafka"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/pkg/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.WatchHistory{},
		&model.Video{}, &model.Comment{}, &model.Like{},
		&model.Playlist{}, &model.PlaylistVideo{},
		&model.Subscription{}, &model.Tweet{},
	))
	return db
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:        "test-access-secret",
		RefreshSecret:       "test-refresh-secret",
		AccessExpireMinutes: 30,
		RefreshExpireDays:   10,
		Issuer:              "vidtube-test",
	}
}

// fakeMediaStore 记录上传与删除的对象，不做真实 IO
type fakeMediaStore struct {
	uploads   []string
	deletes   []string
	uploadErr error
	failOn    string // 对象名包含该子串时上传失败
}

func (f *fakeMediaStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.failOn != "" && strings.Contains(objectName, f.failOn) {
		return "", errors.New("upload failed")
	}
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	f.uploads = append(f.uploads, objectName)
	return f.PublicURL(objectName), nil
}

func (f *fakeMediaStore) Delete(_ context.Context, objectName string) error {
	f.deletes = append(f.deletes, objectName)
	return nil
}

func (f *fakeMediaStore) PublicURL(objectName string) string {
	return "http://media.test/" + objectName
}

// fakeVideoEvents 收集发送的事件
type fakeVideoEvents struct {
	events []string
}

func (f *fakeVideoEvents) SendVideoEvent(_ context.Context, event *infraKafka.VideoEvent) error {
	f.events = append(f.events, event.Type)
	return nil
}

// fakeStatsCache 内存 JSON 缓存
type fakeStatsCache struct {
	data map[string][]byte
	hits int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{data: map[string][]byte{}}
}

func (f *fakeStatsCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	payload, ok := f.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	f.hits++
	return json.NewDecoder(bytes.NewReader(payload)).Decode(dest)
}

func (f *fakeStatsCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = payload
	return nil
}

func testMediaFile(name string) *MediaFile {
	return &MediaFile{
		Reader:      strings.NewReader("fake-bytes"),
		Size:        10,
		ContentType: "application/octet-stream",
		Ext:         "." + name,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &model.User{
		UserName: username,
		Email:    username + "@test.com",
		FullName: "Test " + username,
		Avatar:   "http://media.test/avatars/" + username,
		Password: hashed,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestVideo(t *testing.T, db *gorm.DB, ownerID int64, title string, published bool) *model.Video {
	t.Helper()

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: "description of " + title,
		VideoURL:    "http://media.test/videos/" + title,
		VideoObject: "videos/" + title,
		ThumbURL:    "http://media.test/thumbnails/" + title,
		ThumbObject: "thumbnails/" + title,
		IsPublished: published,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func registerRequest(username string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName: "Full " + username,
		Email:    username + "@test.com",
		Username: username,
		Password: "password123",
	}
}

func newTestVideoService(db *gorm.DB, media MediaStore, events VideoEvents) *VideoService {
	return NewVideoService(
		repository.NewVideoRepository(db),
		repository.NewCommentRepository(db),
		repository.NewLikeRepository(db),
		repository.NewPlaylistRepository(db),
		repository.NewUserRepository(db),
		media,
		events,
	)
}
