package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	CreateReply(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListThread(ctx context.Context, postID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, commentID, requesterID uint) (models.DeletionOutcome, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	var postCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", comment.PostID).
		Count(&postCount).Error; err != nil {
		return err
	}
	if postCount == 0 {
		return models.NewNotFoundError("Post", comment.PostID)
	}

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// CreateReply inserts a reply after validating the parent inside one
// transaction. The parent row is locked FOR UPDATE so a concurrent hard
// delete of a childless parent cannot interleave with the insert; once a
// reply exists, deletion of the parent tombstones instead.
func (r *commentRepository) CreateReply(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parent models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&parent, *comment.ParentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", *comment.ParentID)
			}
			return err
		}

		// A parent attached to a different post is as good as absent.
		if parent.PostID != comment.PostID {
			return models.NewNotFoundError("Comment", *comment.ParentID)
		}

		// Replies only nest one level: a reply to a reply is rejected rather
		// than silently reparented.
		if parent.ParentID != nil {
			return models.NewInvalidHierarchyError("replies to replies are not allowed")
		}

		return tx.Create(comment).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	return &comment, nil
}

// ListThread returns the top-level comments of a post oldest-first, each with
// its replies (also oldest-first) and author records preloaded. Tombstoned
// comments are included; their content is already the placeholder.
func (r *commentRepository) ListThread(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var postCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&postCount).Error; err != nil {
		return nil, err
	}
	if postCount == 0 {
		return nil, models.NewNotFoundError("Post", postID)
	}

	var roots []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at ASC").
		Find(&roots).Error
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// Delete removes a comment on behalf of requesterID. The comment row is
// locked FOR UPDATE for the whole transaction, so the has-replies check and
// the chosen removal cannot race with a concurrent reply insert (which locks
// the same row). Outcomes:
//   - replies exist (tombstoned ones count): content is replaced with the
//     placeholder and the row is kept to anchor the thread
//   - no replies: the row is removed outright
//   - already tombstoned: no-op, reported as such
func (r *commentRepository) Delete(ctx context.Context, commentID, requesterID uint) (models.DeletionOutcome, error) {
	var outcome models.DeletionOutcome
	var postID uint

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&comment, commentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", commentID)
			}
			return err
		}
		postID = comment.PostID

		if comment.UserID != requesterID {
			return models.NewForbiddenError("you can only delete your own comments")
		}

		if comment.Tombstoned {
			outcome = models.OutcomeAlreadyTombstoned
			return nil
		}

		var replyCount int64
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Count(&replyCount).Error; err != nil {
			return err
		}

		if replyCount > 0 {
			outcome = models.OutcomeTombstoned
			return tx.Model(&comment).Updates(map[string]any{
				"content":    models.TombstonePlaceholder,
				"tombstoned": true,
			}).Error
		}

		outcome = models.OutcomeHardDeleted
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return "", err
	}

	if outcome != models.OutcomeAlreadyTombstoned {
		cache.InvalidatePost(ctx, postID)
	}
	return outcome, nil
}
