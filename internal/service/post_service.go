// Package service contains the business rules sitting between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const (
	// FeedPageSize is fixed; clients page, they do not choose a size.
	FeedPageSize = 5
	// TopPostsLimit caps the most-liked listing.
	TopPostsLimit = 5

	maxTitleLen   = 200
	maxContentLen = 50000
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

type CreatePostInput struct {
	UserID       uint
	Title        string
	Content      string
	CategorySlug string
}

type ListPostsInput struct {
	Query         string
	Scope         string
	CategorySlug  string
	Page          int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

// PostPage is one fixed-size page of the feed plus the total match count
// across all pages.
type PostPage struct {
	Posts      []*models.Post `json:"posts"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) *PostService {
	return &PostService{postRepo: postRepo, categoryRepo: categoryRepo}
}

// ListPosts runs the feed query: optional scoped substring search, optional
// exact category filter, newest first. A page beyond the last one returns an
// empty page with the true total, not an error.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := repository.PostFilter{
		Query:        in.Query,
		Scope:        repository.SearchScope(in.Scope),
		CategorySlug: in.CategorySlug,
	}

	posts, total, err := s.postRepo.List(ctx, filter, FeedPageSize, (page-1)*FeedPageSize, in.CurrentUserID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &PostPage{
		Posts:      posts,
		TotalCount: total,
		Page:       page,
		PageSize:   FeedPageSize,
	}, nil
}

// TopLikedPosts returns up to five posts ordered by like count, newest first
// among equals. Fewer than five posts is not an error.
func (s *PostService) TopLikedPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.TopLiked(ctx, TopPostsLimit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// RecordView bumps the post's view counter. Every call counts, reloads
// included; the increment happens in storage so concurrent views never lose
// updates.
func (s *PostService) RecordView(ctx context.Context, postID uint) error {
	if err := s.postRepo.IncrementViewCount(ctx, postID); err != nil {
		return err
	}
	middleware.ViewWrites.Inc()
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthenticatedError("authentication required")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, in.CategorySlug)
		if err != nil {
			return nil, err
		}
		post.CategoryID = &category.ID
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("you can only update your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("you can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
