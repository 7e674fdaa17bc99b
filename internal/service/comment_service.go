package service

import (
	"errors"

	"vidtube/internal/api/dto"
	"vidtube/internal/model"
	"vidtube/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("评论不存在")
	ErrNotCommentOwner = errors.New("无权操作该评论")
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	videoRepo   *repository.VideoRepository
	likeRepo    *repository.LikeRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, videoRepo *repository.VideoRepository, likeRepo *repository.LikeRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo, likeRepo: likeRepo}
}

// Create 对存在且已发布的视频发表评论
func (s *CommentService) Create(ownerID, videoID int64, req *dto.CommentCreateRequest) (*dto.CommentInfo, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != ownerID {
		return nil, ErrVideoNotFound
	}

	comment := &model.Comment{OwnerID: ownerID, VideoID: videoID, Content: req.Content}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return toCommentInfo(created), nil
}

// Update 更新评论内容，仅作者可操作
func (s *CommentService) Update(ownerID, commentID int64, req *dto.CommentUpdateRequest) (*dto.CommentInfo, error) {
	if _, err := s.ownedComment(commentID, ownerID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(commentID, req.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	return toCommentInfo(comment), nil
}

// Delete 删除评论及其收到的点赞，仅作者可操作
func (s *CommentService) Delete(ownerID, commentID int64) error {
	if _, err := s.ownedComment(commentID, ownerID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}
	return s.likeRepo.DeleteByTarget(model.LikeTargetComment, commentID)
}

// ListByVideo 视频评论列表，最新在前
func (s *CommentService) ListByVideo(videoID int64, page, limit int) (*dto.CommentListData, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	skip := (page - 1) * limit
	comments, total, err := s.commentRepo.ListByVideo(videoID, skip, limit)
	if err != nil {
		return nil, err
	}

	list := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		list = append(list, *toCommentInfo(&comments[i]))
	}

	return &dto.CommentListData{
		Comments:   list,
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *CommentService) ownedComment(commentID, ownerID int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.OwnerID != ownerID {
		return nil, ErrNotCommentOwner
	}
	return comment, nil
}

func toCommentInfo(c *model.Comment) *dto.CommentInfo {
	return &dto.CommentInfo{
		ID:        c.ID,
		VideoID:   c.VideoID,
		OwnerID:   c.OwnerID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Owner:     toOwnerBrief(&c.Owner),
	}
}
