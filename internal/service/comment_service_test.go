package service

import (
	"testing"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewVideoRepository(db),
		repository.NewLikeRepository(db),
	)
}

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCommentService(db)
	owner := createTestUser(t, db, "owner")
	commenter := createTestUser(t, db, "commenter")
	video := createTestVideo(t, db, owner.ID, "v", true)

	comment, err := svc.Create(commenter.ID, video.ID, &dto.CommentCreateRequest{Content: "很棒"})
	require.NoError(t, err)
	assert.Equal(t, "很棒", comment.Content)
	require.NotNil(t, comment.Owner)
	assert.Equal(t, "commenter", comment.Owner.Username)

	_, err = svc.Create(commenter.ID, 999, &dto.CommentCreateRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestCommentOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCommentService(db)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	video := createTestVideo(t, db, owner.ID, "v", true)

	comment, err := svc.Create(owner.ID, video.ID, &dto.CommentCreateRequest{Content: "origin"})
	require.NoError(t, err)

	// 别人的评论是越权，不存在的评论才是 404
	_, err = svc.Update(other.ID, comment.ID, &dto.CommentUpdateRequest{Content: "hacked"})
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	err = svc.Delete(other.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	_, err = svc.Update(other.ID, 999, &dto.CommentUpdateRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	err = svc.Delete(other.ID, 999)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	// 无权限的操作不应改动数据
	var unchanged model.Comment
	require.NoError(t, db.First(&unchanged, comment.ID).Error)
	assert.Equal(t, "origin", unchanged.Content)
}

func TestCommentUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCommentService(db)
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "v", true)

	comment, err := svc.Create(owner.ID, video.ID, &dto.CommentCreateRequest{Content: "v1"})
	require.NoError(t, err)

	updated, err := svc.Update(owner.ID, comment.ID, &dto.CommentUpdateRequest{Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	// 删除评论时级联清理评论上的点赞
	likeRepo := repository.NewLikeRepository(db)
	_, err = likeRepo.Create(owner.ID, model.LikeTargetComment, comment.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(owner.ID, comment.ID))

	var likes int64
	require.NoError(t, db.Model(&model.Like{}).Count(&likes).Error)
	assert.Zero(t, likes)
}

func TestListCommentsByVideo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCommentService(db)
	owner := createTestUser(t, db, "owner")
	video := createTestVideo(t, db, owner.ID, "v", true)

	for _, content := range []string{"a", "b", "c"} {
		_, err := svc.Create(owner.ID, video.ID, &dto.CommentCreateRequest{Content: content})
		require.NoError(t, err)
	}

	data, err := svc.ListByVideo(video.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), data.Total)
	assert.Len(t, data.Comments, 2)

	// 没有评论也是成功
	other := createTestVideo(t, db, owner.ID, "quiet", true)
	empty, err := svc.ListByVideo(other.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Comments)

	_, err = svc.ListByVideo(999, 1, 10)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
