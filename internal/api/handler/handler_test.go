package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"vidtube/internal/api/handler"
	"vidtube/internal/api/router"
	"vidtube/internal/config"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("error", "json", "stdout", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

	cfg := &config.Config{
		App: config.AppConfig{Name: "vidtube-test", Version: "test", Mode: "debug", Port: 0},
		JWT: config.JWTConfig{
			AccessSecret:        "handler-access-secret",
			RefreshSecret:       "handler-refresh-secret",
			AccessExpireMinutes: 30,
			RefreshExpireDays:   10,
			Issuer:              "vidtube-test",
		},
	}

	media := &memoryMediaStore{}
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	authSvc := service.NewAuthService(userRepo, media, &cfg.JWT)
	userSvc := service.NewUserService(userRepo, subRepo, media)
	videoSvc := service.NewVideoService(videoRepo, commentRepo, likeRepo, playlistRepo, userRepo, media, nil)
	commentSvc := service.NewCommentService(commentRepo, videoRepo, likeRepo)
	likeSvc := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	playlistSvc := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	subSvc := service.NewSubscriptionService(subRepo, userRepo)
	tweetSvc := service.NewTweetService(tweetRepo, likeRepo, userRepo)
	dashboardSvc := service.NewDashboardService(videoRepo, subRepo, likeRepo, nil)
	searchSvc := service.NewSearchService(videoRepo)

	r := router.Setup(cfg, &router.Handlers{
		User:         handler.NewUserHandler(authSvc, userSvc, &cfg.JWT),
		Video:        handler.NewVideoHandler(videoSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Like:         handler.NewLikeHandler(likeSvc),
		Playlist:     handler.NewPlaylistHandler(playlistSvc),
		Subscription: handler.NewSubscriptionHandler(subSvc),
		Tweet:        handler.NewTweetHandler(tweetSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Search:       handler.NewSearchHandler(searchSvc),
	})
	return r, db
}

// memoryMediaStore 满足 service.MediaStore，上传只记录对象名
type memoryMediaStore struct {
	objects []string
}

func (m *memoryMediaStore) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if reader != nil {
		_, _ = io.Copy(io.Discard, reader)
	}
	m.objects = append(m.objects, objectName)
	return "http://media.test/" + objectName, nil
}

func (m *memoryMediaStore) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *memoryMediaStore) PublicURL(objectName string) string {
	return "http://media.test/" + objectName
}

func registerBody(t *testing.T, username string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("fullName", "Full "+username))
	require.NoError(t, w.WriteField("email", username+"@test.com"))
	require.NoError(t, w.WriteField("username", username))
	require.NoError(t, w.WriteField("password", "password123"))

	part, err := w.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// registerAndLogin 注册并登录，返回访问令牌
func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	body, contentType := registerBody(t, username)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	payload := fmt.Sprintf(`{"username":%q,"password":"password123"}`, username)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	access := cookieValue(w.Result(), "accessToken")
	require.NotEmpty(t, access)
	return access
}

func TestAuthFlow(t *testing.T) {
	r, _ := newTestServer(t)

	// 注册
	body, contentType := registerBody(t, "flowuser")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	// 登录返回令牌并种下 Cookie
	loginPayload := `{"username":"flowuser","password":"password123"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(loginPayload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := w.Result()
	accessCookie := cookieValue(resp, "accessToken")
	refreshCookie := cookieValue(resp, "refreshToken")
	require.NotEmpty(t, accessCookie)
	require.NotEmpty(t, refreshCookie)

	// 携带 Cookie 获取当前用户
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: accessCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"flowuser"`)

	// 刷新令牌轮换
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := cookieValue(w.Result(), "refreshToken")
	require.NotEmpty(t, rotated)
	assert.NotEqual(t, refreshCookie, rotated)

	// 旧刷新令牌复用要 401
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env = decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Errors)

	// 登出后刷新令牌失效
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: accessCookie})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: rotated})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
}

func TestVideoListDefaultsAndEnvelope(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil))
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	// 空库也是成功，分页参数取默认值
	assert.Contains(t, string(env.Data), `"page":1`)
	assert.Contains(t, string(env.Data), `"page_size":10`)
	assert.Contains(t, string(env.Data), `"total":0`)
}

func TestCommentOwnershipStatusCodes(t *testing.T) {
	r, db := newTestServer(t)

	authorToken := registerAndLogin(t, r, "author")
	intruderToken := registerAndLogin(t, r, "intruder")

	var author model.User
	require.NoError(t, db.Where("user_name = ?", "author").First(&author).Error)
	video := &model.Video{
		OwnerID:     author.ID,
		Title:       "v",
		VideoURL:    "http://media.test/videos/v",
		VideoObject: "videos/v",
		ThumbURL:    "http://media.test/thumbnails/v",
		ThumbObject: "thumbnails/v",
		IsPublished: true,
	}
	require.NoError(t, db.Create(video).Error)
	comment := &model.Comment{OwnerID: author.ID, VideoID: video.ID, Content: "origin"}
	require.NoError(t, db.Create(comment).Error)

	patch := func(token string, commentID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/api/v1/comments/c/%d", commentID),
			strings.NewReader(`{"content":"changed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// 别人的评论是 403，不存在的评论是 404
	w := patch(intruderToken, comment.ID)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)

	w = patch(intruderToken, 9999)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = patch(authorToken, comment.ID)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var unchanged model.Comment
	require.NoError(t, db.First(&unchanged, comment.ID).Error)
	assert.Equal(t, "changed", unchanged.Content)
}

func TestReadRoutesRequireAuth(t *testing.T) {
	r, _ := newTestServer(t)

	for _, path := range []string{
		"/api/v1/tweets/user/1",
		"/api/v1/comments/1",
		"/api/v1/playlists/user/1",
		"/api/v1/subscriptions/u/1",
		"/api/v1/users/c/someone",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestServer(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"service":"vidtube-test"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}
