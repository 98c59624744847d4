package service

import (
	"context"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo repository.CommentRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type CreateReplyInput struct {
	UserID   uint
	PostID   uint
	ParentID uint
	Content  string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 2000 characters)")
	}
	return nil
}

// CreateComment adds a top-level comment to a post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		PostID:  in.PostID,
		UserID:  in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// CreateReply adds a reply under a top-level comment. The parent must belong
// to the same post and must itself be top-level; replying to a reply fails
// rather than attaching the comment somewhere else. A tombstoned parent still
// accepts replies.
func (s *CommentService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Comment, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	parentID := in.ParentID
	comment := &models.Comment{
		Content:  in.Content,
		PostID:   in.PostID,
		UserID:   in.UserID,
		ParentID: &parentID,
	}
	if err := s.commentRepo.CreateReply(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes the caller's comment, tombstoning it when replies
// hang off it. Deleting an already-tombstoned comment is a reported no-op,
// not an error.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) (models.DeletionOutcome, error) {
	if userID == 0 {
		return "", models.NewUnauthenticatedError("authentication required")
	}
	return s.commentRepo.Delete(ctx, commentID, userID)
}

// ListThread returns the post's comment thread: top-level comments oldest
// first, each with its replies oldest first. The thread is identical for
// every viewer, so it is served cache-aside.
func (s *CommentService) ListThread(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var roots []*models.Comment
	err := cache.Aside(ctx, cache.ThreadKey(postID), &roots, cache.ThreadTTL, func() error {
		var fetchErr error
		roots, fetchErr = s.commentRepo.ListThread(ctx, postID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []*models.Comment{}
	}
	return roots, nil
}
