package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	createReplyFn func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listThreadFn  func(context.Context, uint) ([]*models.Comment, error)
	deleteFn      func(context.Context, uint, uint) (models.DeletionOutcome, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) CreateReply(ctx context.Context, comment *models.Comment) error {
	return s.createReplyFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListThread(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listThreadFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, commentID, requesterID uint) (models.DeletionOutcome, error) {
	return s.deleteFn(ctx, commentID, requesterID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		createReplyFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listThreadFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn: func(_ context.Context, _, _ uint) (models.DeletionOutcome, error) {
			return models.OutcomeHardDeleted, nil
		},
	}
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("whitespace-only content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: "   "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", 2001),
		})
		assertValidationError(t, err)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{PostID: 1, Content: "hi"})
		assert.Equal(t, models.CodeUnauthenticated, models.ErrorCode(err))
	})
}

func TestCommentService_CreateComment_Success(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 42
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "hello", UserID: 1, PostID: 1}, nil
	}

	svc := NewCommentService(repo)
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  1,
		PostID:  1,
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), comment.ID)
	assert.Nil(t, comment.ParentID)
}

func TestCommentService_CreateReply(t *testing.T) {
	t.Parallel()

	t.Run("parent id is attached", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		var created *models.Comment
		repo.createReplyFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 7
			created = c
			return nil
		}

		svc := NewCommentService(repo)
		_, err := svc.CreateReply(context.Background(), CreateReplyInput{
			UserID: 2, PostID: 1, ParentID: 5, Content: "reply",
		})
		require.NoError(t, err)
		require.NotNil(t, created.ParentID)
		assert.Equal(t, uint(5), *created.ParentID)
	})

	t.Run("hierarchy violation propagates", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.createReplyFn = func(_ context.Context, _ *models.Comment) error {
			return models.NewInvalidHierarchyError("replies to replies are not allowed")
		}

		svc := NewCommentService(repo)
		_, err := svc.CreateReply(context.Background(), CreateReplyInput{
			UserID: 2, PostID: 1, ParentID: 5, Content: "too deep",
		})
		assert.Equal(t, models.CodeInvalidHierarchy, models.ErrorCode(err))
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("outcome passes through", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.deleteFn = func(_ context.Context, _, _ uint) (models.DeletionOutcome, error) {
			return models.OutcomeAlreadyTombstoned, nil
		}
		svc := NewCommentService(repo)

		outcome, err := svc.DeleteComment(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeAlreadyTombstoned, outcome)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo())
		_, err := svc.DeleteComment(context.Background(), 0, 5)
		assert.Equal(t, models.CodeUnauthenticated, models.ErrorCode(err))
	})
}

func TestCommentService_ListThread_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo())
	roots, err := svc.ListThread(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}
